package providers

import "regexp"

// ComparisonTable maps metric × ticker to an extracted value, or "N/A" when
// no value could be found in the prose.
type ComparisonTable struct {
	Companies []string                     `json:"companies"`
	Metrics   map[string]map[string]string `json:"metrics"`
}

// ExtractComparisonTable is a best-effort heuristic that scrapes metric
// values out of comparison prose. It looks for patterns like
// "Revenue (AAPL): $365.8B" or "AAPL revenue: $365.8B". It is lossy and
// non-authoritative; the narrative text remains the source of truth.
func ExtractComparisonTable(content string, tickers, metrics []string) ComparisonTable {
	table := ComparisonTable{
		Companies: tickers,
		Metrics:   make(map[string]map[string]string, len(metrics)),
	}

	for _, metric := range metrics {
		table.Metrics[metric] = make(map[string]string, len(tickers))
		for _, ticker := range tickers {
			table.Metrics[metric][ticker] = "N/A"

			m := regexp.QuoteMeta(metric)
			t := regexp.QuoteMeta(ticker)
			patterns := []*regexp.Regexp{
				regexp.MustCompile(`(?i)` + m + `\s*\(` + t + `\)\s*:?\s*([\$\d\.,%]+)`),
				regexp.MustCompile(`(?i)` + t + `\s*` + m + `\s*:?\s*([\$\d\.,%]+)`),
				regexp.MustCompile(`(?i)` + t + `[^\n]*` + m + `[^\n]*?([\$\d\.,%]+)`),
			}

			for _, p := range patterns {
				if match := p.FindStringSubmatch(content); len(match) > 1 && match[1] != "" {
					table.Metrics[metric][ticker] = match[1]
					break
				}
			}
		}
	}

	return table
}
