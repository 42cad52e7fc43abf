package redis

import (
	"context"
	"sync"
	"time"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// WizardStore is a Redis-aware implementation of app.WizardSessionStore.
// Wizard answers stay in process memory (a reload starts the questionnaire
// over, by contract); Redis only carries liveness markers so an operator can
// see active sessions across instances.
type WizardStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.WizardSession
}

func NewWizardStore(client *redis.Client, ttl time.Duration) *WizardStore {
	return &WizardStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.WizardSession),
	}
}

func (s *WizardStore) GetOrCreate(id string, principal domain.Principal, pageSize int) *app.WizardSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		return session
	}
	session := app.NewWizardSession(id, principal, pageSize)
	s.sessions[id] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(id), "1", s.ttl).Err()
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
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *WizardStore) key(id string) string {
	return "wizard:session:" + id
}
