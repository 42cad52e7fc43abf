package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"github.com/google/uuid"
)

// SubmissionStore is an in-memory implementation of app.SubmissionStore.
// Append-only by construction: records are never touched after insert.
type SubmissionStore struct {
	clock func() time.Time

	mu          sync.RWMutex
	submissions []domain.Submission
	results     []domain.SubmissionResult
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{clock: time.Now}
}

// NewSubmissionStoreWithClock is test-only for deterministic timestamps.
func NewSubmissionStoreWithClock(now func() time.Time) *SubmissionStore {
	return &SubmissionStore{clock: now}
}

// CreateRecords inserts both records under one lock, which makes the pair
// atomic for this store. Both get the same creation timestamp.
func (s *SubmissionStore) CreateRecords(_ context.Context, sub domain.Submission, res domain.SubmissionResult) (domain.Submission, domain.SubmissionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	sub.ID = uuid.NewString()
	sub.CreatedAt = now
	res.ID = uuid.NewString()
	res.CreatedAt = now

	s.submissions = append(s.submissions, sub)
	s.results = append(s.results, res)
	return sub, res, nil
}

// List returns submissions newest first. Equal timestamps fall back to
// insertion order, latest insert winning.
func (s *SubmissionStore) List(_ context.Context) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Submission, len(s.submissions))
	for i, sub := range s.submissions {
		out[len(s.submissions)-1-i] = sub
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *SubmissionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions), nil
}

// Results is test support: a copy of the result records in insertion order.
func (s *SubmissionStore) Results() []domain.SubmissionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SubmissionResult(nil), s.results...)
}
