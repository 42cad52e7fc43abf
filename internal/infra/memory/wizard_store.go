package memory

import (
	"sync"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
)

// WizardStore is an in-memory implementation of app.WizardSessionStore.
// Wizard state is deliberately memory-only: a reload starts over.
type WizardStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.WizardSession
}

func NewWizardStore() *WizardStore {
	return &WizardStore{sessions: make(map[string]*app.WizardSession)}
}

func (s *WizardStore) GetOrCreate(id string, principal domain.Principal, pageSize int) *app.WizardSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		return session
	}
	session := app.NewWizardSession(id, principal, pageSize)
	s.sessions[id] = session
	return session
}

func (s *WizardStore) Get(id string) (*app.WizardSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *WizardStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
