package domain

import "time"

// Question is a single Likert-scale item. IDs are strings end-to-end; numeric
// ids in seed data are stringified at load time.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Category groups questions under a theme with a descriptive blurb used in
// the summary report.
type Category struct {
	Name        string     `json:"category"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// AnswerSet maps question id to the raw submitted value (normally "1".."5",
// but the scoring engine tolerates anything).
type AnswerSet map[string]string

// Lookups is the derived view of a catalog the scoring engine and report
// renderer work from. CategoryOrder preserves catalog iteration order and is
// the tie-break authority for highest/lowest selection.
type Lookups struct {
	QuestionCategory    map[string]string
	QuestionText        map[string]string
	CategoryDescription map[string]string
	CategoryOrder       []string
}

// BuildLookups flattens a catalog into its lookup maps in one pass.
func BuildLookups(cats []Category) Lookups {
	l := Lookups{
		QuestionCategory:    make(map[string]string),
		QuestionText:        make(map[string]string),
		CategoryDescription: make(map[string]string),
		CategoryOrder:       make([]string, 0, len(cats)),
	}
	for _, cat := range cats {
		l.CategoryOrder = append(l.CategoryOrder, cat.Name)
		if cat.Description != "" {
			l.CategoryDescription[cat.Name] = cat.Description
		}
		for _, q := range cat.Questions {
			l.QuestionCategory[q.ID] = cat.Name
			l.QuestionText[q.ID] = q.Text
		}
	}
	return l
}

// BaseSummary is the category-agnostic roll-up of an answer set.
type BaseSummary struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
}

// MergedScores is the full score breakdown persisted on a result record.
type MergedScores struct {
	Total          int            `json:"total"`
	Average        float64        `json:"average"`
	CategoryScores map[string]int `json:"categoryScores"`
}

// Profile carries the respondent fields copied onto a result record. Fields
// are blank when the directory has no entry for the email.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Email     string `json:"email"`
}

// Submission is the minimal persisted record of a completed assessment.
// Category scores are string-serialized here, matching the shape the summary
// view consumes. Append-only.
type Submission struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"ownerId"`
	Answers   AnswerSet         `json:"answers"`
	Scores    map[string]string `json:"scores"`
	CreatedAt time.Time         `json:"createdAt"`
}

// SubmissionResult is the fuller record carrying respondent identity and the
// typed score breakdown. Created alongside a Submission but stored in its own
// table with an independent lifecycle. Append-only.
type SubmissionResult struct {
	ID          string       `json:"id"`
	Profile     Profile      `json:"profile"`
	Answers     AnswerSet    `json:"answers"`
	Scores      MergedScores `json:"scores"`
	SubmittedBy string       `json:"submittedBy"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Principal is the authenticated identity supplied by the session provider.
// The service treats it as opaque trusted input.
type Principal struct {
	UserID string
	Email  string
}
