package app_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"assessment-service/internal/infra/memory"
	"assessment-service/internal/report"
)

type captureQueue struct {
	mu  sync.Mutex
	got []report.Report
}

func (q *captureQueue) Enqueue(r report.Report) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.got = append(q.got, r)
}

func (q *captureQueue) reports() []report.Report {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]report.Report(nil), q.got...)
}

func testCatalog() []domain.Category {
	return []domain.Category{
		{
			Name:        "A",
			Description: "Foundations.",
			Questions:   []domain.Question{{ID: "1", Text: "Q one"}, {ID: "2", Text: "Q two"}},
		},
		{
			Name:      "B",
			Questions: []domain.Question{{ID: "3", Text: "Q three"}},
		},
	}
}

func newTestService(queue app.ReportQueue) (*app.AssessmentService, *memory.SubmissionStore) {
	store := memory.NewSubmissionStore()
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(testCatalog()), 5*time.Minute)
	users := memory.NewUserDirectory(map[string]domain.Profile{
		"jane@example.com": {FirstName: "Jane", LastName: "Doe", Gender: "Female", Email: "jane@example.com"},
	})
	return app.NewAssessmentService(catalog, store, users, queue), store
}

func TestSubmitCreatesBothRecordsAndQueuesReport(t *testing.T) {
	ctx := context.Background()
	queue := &captureQueue{}
	service, store := newTestService(queue)

	receipt, err := service.Submit(ctx,
		domain.Principal{UserID: "u1", Email: "jane@example.com"},
		app.SubmitRequest{Answers: domain.AnswerSet{"1": "3", "3": "5"}},
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.AssessmentID == "" || receipt.ResultID == "" {
		t.Fatalf("expected both record ids, got %+v", receipt)
	}

	subs, err := service.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != receipt.AssessmentID {
		t.Fatalf("round-trip failed: %+v", subs)
	}
	if subs[0].Scores["A"] != "3" || subs[0].Scores["B"] != "5" {
		t.Fatalf("unexpected persisted scores: %v", subs[0].Scores)
	}

	results := store.Results()
	if len(results) != 1 {
		t.Fatalf("expected one result record, got %d", len(results))
	}
	res := results[0]
	if res.Profile.FirstName != "Jane" || res.Profile.Email != "jane@example.com" {
		t.Fatalf("unexpected profile on result: %+v", res.Profile)
	}
	if res.Scores.Total != 8 || res.Scores.Average != 4.00 {
		t.Fatalf("unexpected merged scores: %+v", res.Scores)
	}
	if res.Scores.CategoryScores["A"] != 3 || res.Scores.CategoryScores["B"] != 5 {
		t.Fatalf("unexpected category scores: %+v", res.Scores.CategoryScores)
	}

	reports := queue.reports()
	if len(reports) != 1 {
		t.Fatalf("expected one queued report, got %d", len(reports))
	}
	if reports[0].Subject != "Assessment #001 from Jane Doe" {
		t.Fatalf("unexpected subject %q", reports[0].Subject)
	}
}

func TestSubmitSequenceNumberUsesCountPlusOne(t *testing.T) {
	ctx := context.Background()
	queue := &captureQueue{}
	service, _ := newTestService(queue)

	principal := domain.Principal{UserID: "u1", Email: "jane@example.com"}
	for i := 0; i < 7; i++ {
		if _, err := service.Submit(ctx, principal, app.SubmitRequest{Answers: domain.AnswerSet{"1": "3"}}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	reports := queue.reports()
	if len(reports) != 7 {
		t.Fatalf("expected 7 reports, got %d", len(reports))
	}
	// The seventh submission saw count=6 at insert time.
	if !strings.Contains(reports[6].Subject, "#007") {
		t.Fatalf("expected #007 in subject, got %q", reports[6].Subject)
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(&captureQueue{})

	if _, err := service.Submit(ctx, domain.Principal{}, app.SubmitRequest{Answers: domain.AnswerSet{"1": "3"}}); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := service.Submit(ctx, domain.Principal{UserID: "u1", Email: "a@b.c"}, app.SubmitRequest{}); err != domain.ErrInvalidAnswers {
		t.Fatalf("expected ErrInvalidAnswers, got %v", err)
	}
	if _, err := service.Submit(ctx, domain.Principal{UserID: "u1"}, app.SubmitRequest{Answers: domain.AnswerSet{"1": "3"}}); err != domain.ErrNoEmail {
		t.Fatalf("expected ErrNoEmail, got %v", err)
	}
}

func TestSubmitUnknownProfileStillSucceeds(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(&captureQueue{})

	_, err := service.Submit(ctx,
		domain.Principal{UserID: "u2", Email: "stranger@example.com"},
		app.SubmitRequest{Answers: domain.AnswerSet{"1": "4"}},
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	res := store.Results()[0]
	if res.Profile.FirstName != "" || res.Profile.Email != "stranger@example.com" {
		t.Fatalf("expected blank profile with email, got %+v", res.Profile)
	}
}

func TestSubmitEmailOverrideWins(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(&captureQueue{})

	_, err := service.Submit(ctx,
		domain.Principal{UserID: "u1", Email: "other@example.com"},
		app.SubmitRequest{Answers: domain.AnswerSet{"1": "4"}, Email: "jane@example.com"},
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if store.Results()[0].Profile.FirstName != "Jane" {
		t.Fatalf("expected override email to drive the profile lookup")
	}
}

func TestCatalogViewFlattensQuestions(t *testing.T) {
	service, _ := newTestService(&captureQueue{})

	view, err := service.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(view.Questions) != 3 {
		t.Fatalf("expected 3 flattened questions, got %d", len(view.Questions))
	}
	if view.Questions[0].Category != "A" || view.Questions[2].Category != "B" {
		t.Fatalf("unexpected flattening order: %+v", view.Questions)
	}
	if len(view.Categories) != 2 || view.Categories[0].Description != "Foundations." {
		t.Fatalf("unexpected categories: %+v", view.Categories)
	}
}

func TestSummaryMergesNewestWithDescriptions(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(&captureQueue{})
	principal := domain.Principal{UserID: "u1", Email: "jane@example.com"}

	if _, err := service.Submit(ctx, principal, app.SubmitRequest{Answers: domain.AnswerSet{"1": "1"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.Submit(ctx, principal, app.SubmitRequest{Answers: domain.AnswerSet{"1": "2", "3": "5"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	outcomes, err := service.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes from the newest submission, got %+v", outcomes)
	}
	if outcomes[0].Category != "B" || outcomes[0].Score != 5 {
		t.Fatalf("expected B(5) first, got %+v", outcomes[0])
	}
	if outcomes[1].Category != "A" || outcomes[1].Description != "Foundations." {
		t.Fatalf("expected A with description, got %+v", outcomes[1])
	}
}

func TestSummaryWithoutSubmissions(t *testing.T) {
	service, _ := newTestService(&captureQueue{})
	if _, err := service.Summary(context.Background()); err != domain.ErrNoSubmissions {
		t.Fatalf("expected ErrNoSubmissions, got %v", err)
	}
}
