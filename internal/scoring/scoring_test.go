package scoring

import (
	"testing"

	"assessment-service/internal/domain"
)

func TestCategoryScoresSumsPerCategory(t *testing.T) {
	answers := domain.AnswerSet{"q1": "3", "q2": "5"}
	mapping := map[string]string{"q1": "A", "q2": "B"}

	got := CategoryScores(answers, mapping)
	if len(got) != 2 || got["A"] != 3 || got["B"] != 5 {
		t.Fatalf("unexpected scores: %v", got)
	}

	str := Stringify(got)
	if str["A"] != "3" || str["B"] != "5" {
		t.Fatalf("unexpected stringified scores: %v", str)
	}
}

func TestCategoryScoresDropsUnmappedQuestions(t *testing.T) {
	answers := domain.AnswerSet{"q1": "3", "mystery": "5"}
	mapping := map[string]string{"q1": "A"}

	got := CategoryScores(answers, mapping)
	if len(got) != 1 || got["A"] != 3 {
		t.Fatalf("expected only A:3, got %v", got)
	}
}

func TestCategoryScoresMalformedValueCountsZero(t *testing.T) {
	answers := domain.AnswerSet{"q1": "x", "q2": "4"}
	mapping := map[string]string{"q1": "A", "q2": "B"}

	got := CategoryScores(answers, mapping)
	if got["A"] != 0 {
		t.Fatalf("malformed answer should contribute 0, got %d", got["A"])
	}
	if got["B"] != 4 {
		t.Fatalf("expected B:4, got %v", got)
	}
}

func TestCategoryScoresNeverEmitsZeroForUnansweredCategory(t *testing.T) {
	answers := domain.AnswerSet{"q1": "2"}
	mapping := map[string]string{"q1": "A", "q2": "B"}

	got := CategoryScores(answers, mapping)
	if _, present := got["B"]; present {
		t.Fatalf("category B has no answers and must be absent, got %v", got)
	}
}

func TestBaseSummary(t *testing.T) {
	cases := []struct {
		name    string
		answers domain.AnswerSet
		total   int
		average float64
	}{
		{"two numeric", domain.AnswerSet{"q1": "3", "q2": "5"}, 8, 4.00},
		{"non-numeric skipped", domain.AnswerSet{"q1": "x", "q2": "4"}, 4, 4.00},
		{"all non-numeric", domain.AnswerSet{"q1": "a", "q2": ""}, 0, 0},
		{"empty", domain.AnswerSet{}, 0, 0},
		{"rounding", domain.AnswerSet{"q1": "1", "q2": "2", "q3": "2"}, 5, 1.67},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BaseSummary(tc.answers)
			if got.Total != tc.total || got.Average != tc.average {
				t.Fatalf("got %+v, want total=%d average=%v", got, tc.total, tc.average)
			}
		})
	}
}

// The base summary counts every numeric answer even when the question maps to
// no category, so the category sum can only fall short of the base total.
func TestCategorySumNeverExceedsBaseTotal(t *testing.T) {
	answers := domain.AnswerSet{"q1": "3", "q2": "5", "orphan": "2"}
	mapping := map[string]string{"q1": "A", "q2": "A"}

	base := BaseSummary(answers)
	cats := CategoryScores(answers, mapping)
	sum := 0
	for _, n := range cats {
		sum += n
	}
	if sum > base.Total {
		t.Fatalf("category sum %d exceeds base total %d", sum, base.Total)
	}
	if sum != 8 || base.Total != 10 {
		t.Fatalf("expected 8 vs 10, got %d vs %d", sum, base.Total)
	}
}

func TestHighestLowest(t *testing.T) {
	scores := map[string]int{"A": 2, "B": 9, "C": 5}
	order := []string{"A", "B", "C"}

	hi, lo, ok := HighestLowest(scores, order)
	if !ok {
		t.Fatal("expected ok")
	}
	if hi.Category != "B" || hi.Score != 9 {
		t.Fatalf("expected highest B(9), got %+v", hi)
	}
	if lo.Category != "A" || lo.Score != 2 {
		t.Fatalf("expected lowest A(2), got %+v", lo)
	}
}

func TestHighestLowestTieBreaksByCatalogOrder(t *testing.T) {
	scores := map[string]int{"A": 5, "B": 5}

	hi, lo, ok := HighestLowest(scores, []string{"A", "B"})
	if !ok || lo.Category != "A" || hi.Category != "A" {
		t.Fatalf("expected A to win both ties, got hi=%+v lo=%+v", hi, lo)
	}

	hi, lo, ok = HighestLowest(scores, []string{"B", "A"})
	if !ok || lo.Category != "B" || hi.Category != "B" {
		t.Fatalf("expected B to win both ties, got hi=%+v lo=%+v", hi, lo)
	}
}

func TestHighestLowestEmpty(t *testing.T) {
	if _, _, ok := HighestLowest(nil, nil); ok {
		t.Fatal("expected ok=false for empty scores")
	}
}
