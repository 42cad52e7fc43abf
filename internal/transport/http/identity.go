package http

import (
	"net/http"

	"assessment-service/internal/domain"
)

// Identity resolves the authenticated principal for a request. The session
// provider itself (login, registration, password reset) is an external
// collaborator; this service only consumes its output.
type Identity interface {
	Resolve(r *http.Request) (domain.Principal, bool)
}

// HeaderIdentity trusts principal headers injected by the auth proxy in
// front of the service.
type HeaderIdentity struct{}

func (HeaderIdentity) Resolve(r *http.Request) (domain.Principal, bool) {
	p := domain.Principal{
		UserID: r.Header.Get("X-User-Id"),
		Email:  r.Header.Get("X-User-Email"),
	}
	if p.UserID == "" && p.Email == "" {
		return domain.Principal{}, false
	}
	return p, true
}
