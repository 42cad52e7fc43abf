// Package scoring aggregates raw answer sets into category totals and the
// base total/average summary. Everything here is pure and deterministic.
package scoring

import (
	"math"
	"strconv"

	"assessment-service/internal/domain"
)

// CategoryScores sums answer values per category. Values that fail integer
// parsing contribute 0 (lenient by design, matching the historical behavior —
// a malformed answer is not a validation error at this layer). Answers whose
// question id maps to no known category are dropped entirely; a category with
// no answered questions is absent from the result, never a zero entry.
func CategoryScores(answers domain.AnswerSet, questionCategory map[string]string) map[string]int {
	sums := make(map[string]int)
	for qid, raw := range answers {
		cat, ok := questionCategory[qid]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		sums[cat] += n
	}
	return sums
}

// Stringify converts numeric category scores to the string-serialized form
// the minimal submission record persists.
func Stringify(scores map[string]int) map[string]string {
	out := make(map[string]string, len(scores))
	for cat, n := range scores {
		out[cat] = strconv.Itoa(n)
	}
	return out
}

// BaseSummary computes total and average over all numeric answers, ignoring
// the category mapping. Non-numeric values are skipped and do not count
// toward the average's denominator. The average is rounded to 2 decimal
// places; it is 0 when no value parses. Note the deliberate asymmetry with
// CategoryScores: an answer to an unmapped question still counts here.
func BaseSummary(answers domain.AnswerSet) domain.BaseSummary {
	total := 0.0
	count := 0
	for _, raw := range answers {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		total += v
		count++
	}
	s := domain.BaseSummary{Total: int(total)}
	if count > 0 {
		s.Average = math.Round(total/float64(count)*100) / 100
	}
	return s
}

// Ranked pairs a category with its score for highest/lowest selection.
type Ranked struct {
	Category string
	Score    int
}

// HighestLowest picks the single highest- and lowest-scoring categories.
// Ties are broken by catalog iteration order: the first category encountered
// in order wins on both ends. ok is false when scores is empty. Categories
// scored but missing from order are considered after the ordered ones, which
// cannot happen for a well-formed catalog.
func HighestLowest(scores map[string]int, order []string) (highest, lowest Ranked, ok bool) {
	if len(scores) == 0 {
		return Ranked{}, Ranked{}, false
	}
	seen := make(map[string]bool, len(scores))
	ordered := make([]Ranked, 0, len(scores))
	for _, cat := range order {
		if n, present := scores[cat]; present {
			ordered = append(ordered, Ranked{Category: cat, Score: n})
			seen[cat] = true
		}
	}
	for cat, n := range scores {
		if !seen[cat] {
			ordered = append(ordered, Ranked{Category: cat, Score: n})
		}
	}

	highest, lowest = ordered[0], ordered[0]
	for _, r := range ordered[1:] {
		if r.Score > highest.Score {
			highest = r
		}
		if r.Score < lowest.Score {
			lowest = r
		}
	}
	return highest, lowest, true
}

// Merge combines the base summary with category scores into the typed
// breakdown persisted on a result record.
func Merge(base domain.BaseSummary, categoryScores map[string]int) domain.MergedScores {
	return domain.MergedScores{
		Total:          base.Total,
		Average:        base.Average,
		CategoryScores: categoryScores,
	}
}
