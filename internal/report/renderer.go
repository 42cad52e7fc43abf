// Package report turns a scored submission into the notification payload sent
// to the administrator: subject line, HTML body and a chart spec. Rendering is
// a pure transform; delivery lives in the dispatcher.
package report

import (
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"

	"assessment-service/internal/domain"
	"assessment-service/internal/scoring"
)

const (
	unknownQuestionLabel   = "Unknown question"
	missingDescriptionText = "No summary for that category"
)

// Report is the rendered notification payload.
type Report struct {
	Subject  string
	HTMLBody string
	Chart    ChartSpec
}

var bodyTmpl = template.Must(template.New("report").Parse(`<h2 style="margin-bottom:0.5rem;">New Assessment Submission</h2>
<p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
<p><strong>Gender:</strong> {{.Gender}}</p>
<p><strong>Email:</strong> {{.Email}}</p>

<hr style="margin:1rem 0;" />

<p><strong>All Scores:</strong> {{.AllScores}}</p>
<p><strong>Highest Category:</strong> {{.Highest.Category}} ({{.Highest.Score}})<br/>
   <em>{{.HighestSummary}}</em></p>
<p><strong>Lowest Category:</strong> {{.Lowest.Category}} ({{.Lowest.Score}})<br/>
   <em>{{.LowestSummary}}</em></p>

<p><img src="{{.ChartURL}}" alt="Chart of Scores" /></p>

<hr style="margin:1rem 0;" />

<p><strong>Answers:</strong></p>
<table border="1" cellpadding="5" cellspacing="0" style="border-collapse:collapse;margin-top:1rem;">
  <thead style="background:#eee;">
    <tr><th style="padding:5px 10px;">Question</th>
        <th style="padding:5px 10px;">Answer</th></tr>
  </thead>
  <tbody>
{{- range .Rows}}
    <tr>
      <td style="padding:5px 10px;">{{.Question}}</td>
      <td style="padding:5px 10px;">{{.Answer}}</td>
    </tr>
{{- end}}
  </tbody>
</table>
`))

type bodyData struct {
	FirstName, LastName, Gender, Email string
	AllScores                          string
	Highest, Lowest                    scoring.Ranked
	HighestSummary, LowestSummary      string
	ChartURL                           string
	Rows                               []qaRow
}

type qaRow struct {
	Question string
	Answer   string
}

// Render builds the notification payload for one submission. seq is the
// human-facing sequence number (advisory; see the store's Count contract).
func Render(profile domain.Profile, answers domain.AnswerSet, categoryScores map[string]int, lookups domain.Lookups, seq int) (Report, error) {
	chart := NewPieSpec(categoryScores, lookups.CategoryOrder)

	highest, lowest, _ := scoring.HighestLowest(categoryScores, lookups.CategoryOrder)
	highSummary := lookups.CategoryDescription[highest.Category]
	if highSummary == "" {
		highSummary = missingDescriptionText
	}
	lowSummary := lookups.CategoryDescription[lowest.Category]
	if lowSummary == "" {
		lowSummary = missingDescriptionText
	}

	data := bodyData{
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Gender:         profile.Gender,
		Email:          profile.Email,
		AllScores:      formatAllScores(categoryScores, lookups.CategoryOrder),
		Highest:        highest,
		Lowest:         lowest,
		HighestSummary: highSummary,
		LowestSummary:  lowSummary,
		ChartURL:       chart.QuickChartURL(),
		Rows:           buildRows(answers, lookups.QuestionText),
	}

	var body strings.Builder
	if err := bodyTmpl.Execute(&body, data); err != nil {
		return Report{}, fmt.Errorf("render report body: %w", err)
	}

	return Report{
		Subject:  fmt.Sprintf("Assessment #%03d from %s %s", seq, profile.FirstName, profile.LastName),
		HTMLBody: body.String(),
		Chart:    chart,
	}, nil
}

// formatAllScores lists every category score in catalog order, with scored
// categories unknown to the catalog appended alphabetically.
func formatAllScores(scores map[string]int, order []string) string {
	parts := make([]string, 0, len(scores))
	seen := make(map[string]bool, len(scores))
	for _, cat := range order {
		if n, ok := scores[cat]; ok {
			parts = append(parts, fmt.Sprintf("%s: %d", cat, n))
			seen[cat] = true
		}
	}
	rest := make([]string, 0)
	for cat := range scores {
		if !seen[cat] {
			rest = append(rest, cat)
		}
	}
	sort.Strings(rest)
	for _, cat := range rest {
		parts = append(parts, fmt.Sprintf("%s: %d", cat, scores[cat]))
	}
	return strings.Join(parts, ", ")
}

// buildRows covers every key in the answer set, with a placeholder label for
// ids the catalog does not know. Keys sort numerically when possible so the
// table follows question order rather than map order.
func buildRows(answers domain.AnswerSet, questionText map[string]string) []qaRow {
	ids := make([]string, 0, len(answers))
	for qid := range answers {
		ids = append(ids, qid)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aerr := strconv.Atoi(ids[i])
		b, berr := strconv.Atoi(ids[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if (aerr == nil) != (berr == nil) {
			return aerr == nil
		}
		return ids[i] < ids[j]
	})

	rows := make([]qaRow, 0, len(ids))
	for _, qid := range ids {
		text := questionText[qid]
		if text == "" {
			text = unknownQuestionLabel
		}
		rows = append(rows, qaRow{Question: text, Answer: answers[qid]})
	}
	return rows
}
