package memory

import (
	"context"
	"sync"

	"assessment-service/internal/domain"
)

// UserDirectory is a static in-memory profile directory keyed by email.
type UserDirectory struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewUserDirectory(profiles map[string]domain.Profile) *UserDirectory {
	if profiles == nil {
		profiles = make(map[string]domain.Profile)
	}
	return &UserDirectory{profiles: profiles}
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (domain.Profile, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.profiles[email]
	return p, ok, nil
}

// Put registers a profile, used by demo seeding and tests.
func (d *UserDirectory) Put(p domain.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.Email] = p
}
