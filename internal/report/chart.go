package report

import (
	"encoding/json"
	"net/url"
)

const quickChartBase = "https://quickchart.io/chart?c="

// ChartSpec encodes one slice per category with its numeric score. Labels and
// Values are index-aligned and follow catalog order.
type ChartSpec struct {
	Type   string   `json:"type"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// NewPieSpec builds a pie spec from category scores, ordered by the catalog.
// Scored categories missing from the order are appended as encountered.
func NewPieSpec(scores map[string]int, order []string) ChartSpec {
	spec := ChartSpec{Type: "pie"}
	seen := make(map[string]bool, len(scores))
	for _, cat := range order {
		if n, ok := scores[cat]; ok {
			spec.Labels = append(spec.Labels, cat)
			spec.Values = append(spec.Values, n)
			seen[cat] = true
		}
	}
	for cat, n := range scores {
		if !seen[cat] {
			spec.Labels = append(spec.Labels, cat)
			spec.Values = append(spec.Values, n)
		}
	}
	return spec
}

// quickChartConfig mirrors the Chart.js config QuickChart renders.
type quickChartConfig struct {
	Type string `json:"type"`
	Data struct {
		Labels   []string `json:"labels"`
		Datasets []struct {
			Data []int `json:"data"`
		} `json:"datasets"`
	} `json:"data"`
}

// QuickChartURL renders the spec as a QuickChart image URL for embedding in
// the HTML body.
func (s ChartSpec) QuickChartURL() string {
	cfg := quickChartConfig{Type: s.Type}
	cfg.Data.Labels = s.Labels
	cfg.Data.Datasets = []struct {
		Data []int `json:"data"`
	}{{Data: s.Values}}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return quickChartBase + url.QueryEscape(string(raw))
}
