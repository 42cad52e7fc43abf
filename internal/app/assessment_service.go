package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"

	"assessment-service/internal/domain"
	"assessment-service/internal/report"
	"assessment-service/internal/scoring"
)

// CatalogRepository loads the question catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) ([]domain.Category, error)
}

// SubmissionStore persists assessment records. The contract is append-only:
// no update or delete operations exist.
type SubmissionStore interface {
	// CreateRecords inserts the minimal submission and the full result
	// together, assigning ids and timestamps. Implementations decide
	// atomicity; the postgres store commits both in one transaction.
	CreateRecords(ctx context.Context, sub domain.Submission, res domain.SubmissionResult) (domain.Submission, domain.SubmissionResult, error)
	// List returns submissions newest first.
	List(ctx context.Context) ([]domain.Submission, error)
	// Count returns the number of submissions ever created. Used only for
	// the advisory report sequence number.
	Count(ctx context.Context) (int, error)
}

// UserDirectory resolves respondent profiles by email. A miss is not an
// error; the result record simply carries blank profile fields.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (domain.Profile, bool, error)
}

// ReportQueue hands rendered reports to the asynchronous delivery worker.
type ReportQueue interface {
	Enqueue(report.Report)
}

// SubmitRequest is the body of a submission: the answer set plus an optional
// email override (falls back to the principal's email).
type SubmitRequest struct {
	Answers domain.AnswerSet `json:"answers"`
	Email   string           `json:"email,omitempty"`
}

// Receipt identifies the two records created by a submission.
type Receipt struct {
	AssessmentID string `json:"assessmentId"`
	ResultID     string `json:"resultId"`
}

// CatalogQuestion is a question flattened with its category name.
type CatalogQuestion struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// CategoryInfo pairs a category with its description for the catalog view.
type CategoryInfo struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// CatalogView is the client-facing shape of the catalog: every question
// flattened in catalog order plus the category/description list.
type CatalogView struct {
	Questions  []CatalogQuestion `json:"questions"`
	Categories []CategoryInfo    `json:"categories"`
}

// CategoryOutcome is one merged row of the summary view: the newest
// submission's score for a category joined with its catalog description.
type CategoryOutcome struct {
	Category    string `json:"category"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// AssessmentService contains the assessment use cases.
type AssessmentService struct {
	catalog CatalogRepository
	store   SubmissionStore
	users   UserDirectory
	reports ReportQueue
}

func NewAssessmentService(catalog CatalogRepository, store SubmissionStore, users UserDirectory, reports ReportQueue) *AssessmentService {
	return &AssessmentService{catalog: catalog, store: store, users: users, reports: reports}
}

// Submit scores an answer set, persists both records and queues the report.
// Report delivery is fire-and-forget: once the records are written the
// submission has succeeded regardless of what happens to the email.
func (s *AssessmentService) Submit(ctx context.Context, principal domain.Principal, req SubmitRequest) (Receipt, error) {
	if principal.UserID == "" && principal.Email == "" {
		return Receipt{}, domain.ErrNotAuthenticated
	}
	if len(req.Answers) == 0 {
		return Receipt{}, domain.ErrInvalidAnswers
	}
	email := req.Email
	if email == "" {
		email = principal.Email
	}
	if email == "" {
		return Receipt{}, domain.ErrNoEmail
	}

	profile, found, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return Receipt{}, fmt.Errorf("lookup profile: %w", err)
	}
	if !found {
		profile = domain.Profile{}
	}
	profile.Email = email

	// Advisory sequence number: count-then-use with no transactional guard.
	// Concurrent submitters may collide; the number is cosmetic only.
	count, err := s.store.Count(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("count submissions: %w", err)
	}
	seq := count + 1

	cats, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("load catalog: %w", err)
	}
	lookups := domain.BuildLookups(cats)

	categoryScores := scoring.CategoryScores(req.Answers, lookups.QuestionCategory)
	base := scoring.BaseSummary(req.Answers)

	owner := principal.UserID
	if owner == "" {
		owner = email
	}

	sub := domain.Submission{
		OwnerID: owner,
		Answers: req.Answers,
		Scores:  scoring.Stringify(categoryScores),
	}
	res := domain.SubmissionResult{
		Profile:     profile,
		Answers:     req.Answers,
		Scores:      scoring.Merge(base, categoryScores),
		SubmittedBy: principal.UserID,
	}

	sub, res, err = s.store.CreateRecords(ctx, sub, res)
	if err != nil {
		return Receipt{}, fmt.Errorf("persist submission: %w", err)
	}

	if s.reports != nil {
		rep, err := report.Render(profile, req.Answers, categoryScores, lookups, seq)
		if err != nil {
			// Rendering trouble must not undo a persisted submission.
			log.Printf("render report for submission %s: %v", sub.ID, err)
		} else {
			s.reports.Enqueue(rep)
		}
	}

	return Receipt{AssessmentID: sub.ID, ResultID: res.ID}, nil
}

// Latest returns submissions newest first.
func (s *AssessmentService) Latest(ctx context.Context) ([]domain.Submission, error) {
	return s.store.List(ctx)
}

// Catalog returns the flattened questions plus category descriptions.
func (s *AssessmentService) Catalog(ctx context.Context) (CatalogView, error) {
	cats, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return CatalogView{}, fmt.Errorf("load catalog: %w", err)
	}
	view := CatalogView{
		Questions:  []CatalogQuestion{},
		Categories: []CategoryInfo{},
	}
	for _, cat := range cats {
		view.Categories = append(view.Categories, CategoryInfo{Category: cat.Name, Description: cat.Description})
		for _, q := range cat.Questions {
			view.Questions = append(view.Questions, CatalogQuestion{ID: q.ID, Text: q.Text, Category: cat.Name})
		}
	}
	return view, nil
}

// Summary merges the newest submission's category scores with catalog
// descriptions, sorted score-descending. Scored categories the catalog no
// longer knows are dropped from the view.
func (s *AssessmentService) Summary(ctx context.Context) ([]CategoryOutcome, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if len(subs) == 0 {
		return nil, domain.ErrNoSubmissions
	}
	newest := subs[0]

	cats, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	known := make(map[string]string, len(cats))
	for _, cat := range cats {
		known[cat.Name] = cat.Description
	}

	outcomes := make([]CategoryOutcome, 0, len(newest.Scores))
	for cat, raw := range newest.Scores {
		desc, ok := known[cat]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		outcomes = append(outcomes, CategoryOutcome{Category: cat, Score: n, Description: desc})
	}
	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].Score != outcomes[j].Score {
			return outcomes[i].Score > outcomes[j].Score
		}
		return outcomes[i].Category < outcomes[j].Category
	})
	return outcomes, nil
}
