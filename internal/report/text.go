// Package report presents verification results: plain-text summaries and
// scatter plots of estimates against observations. Everything here is built
// from the metric map returned by metrics.ErrorMetrics.All plus the raw
// observation and estimate samples.
package report

import (
	"fmt"
	"io"
	"sort"
)

// DefaultMetrics are the metrics shown by Text and the plots when none are
// selected.
var DefaultMetrics = []string{"rmse", "r2", "meanerr"}

// Pretty writes every metric as a "name: value" line, sorted by name.
func Pretty(w io.Writer, values map[string]float64) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%-8s %s\n", k+":", formatValue(values[k])); err != nil {
			return err
		}
	}
	return nil
}

// Text writes the selected metrics in the order given, preceded by the
// number of pairs. An empty selection uses DefaultMetrics. Selecting a
// metric missing from values is an error.
func Text(w io.Writer, n int, values map[string]float64, selected []string) error {
	lines, err := metricLines(values, selected)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "n: %d\n", n); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// metricLines formats the selected metrics as "name: value" strings.
func metricLines(values map[string]float64, selected []string) ([]string, error) {
	if len(selected) == 0 {
		selected = DefaultMetrics
	}
	out := make([]string, 0, len(selected))
	for _, name := range selected {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		out = append(out, fmt.Sprintf("%s: %s", name, formatValue(v)))
	}
	return out, nil
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
