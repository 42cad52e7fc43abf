package app

import (
	"sync"
	"time"

	"assessment-service/internal/domain"
)

// Wizard states. The flow is strictly linear: pages of fixed size, forward
// movement gated on the current page being fully answered, backward movement
// always allowed. Answers live in memory only until the final submit.
const (
	WizardLoadingCatalog = "loading-catalog"
	WizardInProgress     = "in-progress"
	WizardSubmitting     = "submitting"
	WizardDone           = "done"
	WizardError          = "error"
)

// DefaultPageSize matches the reference flow: six questions per page.
const DefaultPageSize = 6

// WizardSessionStore abstracts how wizard sessions are held (in-memory,
// optionally mirrored to Redis for liveness).
type WizardSessionStore interface {
	GetOrCreate(id string, principal domain.Principal, pageSize int) *WizardSession
	Get(id string) (*WizardSession, bool)
	Delete(id string)
}

// PageView is the snapshot sent to the client after every wizard operation.
type PageView struct {
	State      string            `json:"state"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Questions  []CatalogQuestion `json:"questions"`
	Answers    map[string]string `json:"answers"`
	Missing    []string          `json:"missing,omitempty"`
	Error      string            `json:"error,omitempty"`
	Receipt    *Receipt          `json:"receipt,omitempty"`
}

// WizardSession tracks one respondent's progress through the questionnaire.
type WizardSession struct {
	id        string
	principal domain.Principal
	pageSize  int
	createdAt time.Time
	now       func() time.Time

	mu        sync.Mutex
	state     string
	page      int
	questions []CatalogQuestion
	answers   domain.AnswerSet
	missing   []string
	lastErr   string
	receipt   *Receipt
}

func NewWizardSession(id string, principal domain.Principal, pageSize int) *WizardSession {
	return newWizardSessionWithClock(id, principal, pageSize, time.Now)
}

// NewWizardSessionWithClock is test-only for deterministic timestamps.
func NewWizardSessionWithClock(id string, principal domain.Principal, pageSize int, now func() time.Time) *WizardSession {
	return newWizardSessionWithClock(id, principal, pageSize, now)
}

func newWizardSessionWithClock(id string, principal domain.Principal, pageSize int, now func() time.Time) *WizardSession {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &WizardSession{
		id:        id,
		principal: principal,
		pageSize:  pageSize,
		createdAt: now(),
		now:       now,
		state:     WizardLoadingCatalog,
		answers:   make(domain.AnswerSet),
	}
}

// Principal returns the identity the session was created for.
func (s *WizardSession) Principal() domain.Principal {
	return s.principal
}

// Begin installs the loaded catalog questions and moves to page 0.
func (s *WizardSession) Begin(questions []CatalogQuestion) PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == WizardLoadingCatalog {
		s.questions = questions
		s.state = WizardInProgress
		s.page = 0
	}
	return s.viewLocked()
}

// SetAnswer records an answer. Allowed on any page at any time while the
// wizard is in progress; it also clears the missing flags for that question.
func (s *WizardSession) SetAnswer(questionID, value string) PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != WizardInProgress {
		return s.viewLocked()
	}
	s.answers[questionID] = value
	s.missing = nil
	return s.viewLocked()
}

// Next advances one page, but only when every question on the current page
// has a non-empty answer; otherwise it stays put and flags the missing ids.
func (s *WizardSession) Next() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != WizardInProgress {
		return s.viewLocked()
	}
	if missing := s.unansweredLocked(); len(missing) > 0 {
		s.missing = missing
		return s.viewLocked()
	}
	if s.page < s.totalPagesLocked()-1 {
		s.page++
	}
	s.missing = nil
	return s.viewLocked()
}

// Prev moves back one page. Always permitted, never re-validates.
func (s *WizardSession) Prev() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != WizardInProgress {
		return s.viewLocked()
	}
	if s.page > 0 {
		s.page--
	}
	s.missing = nil
	return s.viewLocked()
}

// View returns the current snapshot without changing state.
func (s *WizardSession) View() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// StartSubmit validates the final page and moves to submitting, returning a
// copy of the accumulated answers for the service call. ok is false when the
// wizard is not on its last page or that page is incomplete.
func (s *WizardSession) StartSubmit() (domain.AnswerSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != WizardInProgress || s.page != s.totalPagesLocked()-1 {
		return nil, false
	}
	if missing := s.unansweredLocked(); len(missing) > 0 {
		s.missing = missing
		return nil, false
	}
	s.state = WizardSubmitting
	s.missing = nil
	s.lastErr = ""

	answers := make(domain.AnswerSet, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	return answers, true
}

// FinishSubmit completes the submitting transition: done on success, back to
// in-progress on the last page with an error indicator on failure.
func (s *WizardSession) FinishSubmit(receipt Receipt, err error) PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != WizardSubmitting {
		return s.viewLocked()
	}
	if err != nil {
		s.state = WizardInProgress
		s.lastErr = err.Error()
		return s.viewLocked()
	}
	s.state = WizardDone
	s.receipt = &receipt
	return s.viewLocked()
}

func (s *WizardSession) totalPagesLocked() int {
	if len(s.questions) == 0 {
		return 1
	}
	return (len(s.questions) + s.pageSize - 1) / s.pageSize
}

func (s *WizardSession) pageQuestionsLocked() []CatalogQuestion {
	start := s.page * s.pageSize
	if start >= len(s.questions) {
		return nil
	}
	end := start + s.pageSize
	if end > len(s.questions) {
		end = len(s.questions)
	}
	return s.questions[start:end]
}

func (s *WizardSession) unansweredLocked() []string {
	var missing []string
	for _, q := range s.pageQuestionsLocked() {
		if s.answers[q.ID] == "" {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

func (s *WizardSession) viewLocked() PageView {
	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	return PageView{
		State:      s.state,
		Page:       s.page,
		TotalPages: s.totalPagesLocked(),
		Questions:  append([]CatalogQuestion(nil), s.pageQuestionsLocked()...),
		Answers:    answers,
		Missing:    append([]string(nil), s.missing...),
		Error:      s.lastErr,
		Receipt:    s.receipt,
	}
}
