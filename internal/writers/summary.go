// internal/writers/summary.go
package writers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gffkit/core/feature"
)

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	summaryLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	summaryValue = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type tally struct {
	key   string
	count int
}

func countBy(list []*feature.Feature, key func(*feature.Feature) string) []tally {
	m := map[string]int{}
	for _, f := range list {
		m[key(f)]++
	}
	out := make([]tally, 0, len(m))
	for k, n := range m {
		out = append(out, tally{k, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

// WriteSummary prints feature counts per featureset and per type.
func WriteSummary(w io.Writer, source string, list []*feature.Feature) error {
	var b strings.Builder
	if source == "" {
		source = "-"
	}
	b.WriteString(summaryTitle.Render(fmt.Sprintf("%s: %d features", source, len(list))))
	b.WriteString("\n")
	section := func(title string, rows []tally) {
		if len(rows) == 0 {
			return
		}
		b.WriteString(summaryLabel.Render(title))
		b.WriteString("\n")
		for _, r := range rows {
			b.WriteString(summaryValue.Render(fmt.Sprintf("  %-30s %d", r.key, r.count)))
			b.WriteString("\n")
		}
	}
	section("featuresets", countBy(list, func(f *feature.Feature) string { return f.Source }))
	section("types", countBy(list, func(f *feature.Feature) string { return f.SOType }))
	section("modes", countBy(list, func(f *feature.Feature) string { return f.Mode.String() }))
	_, err := io.WriteString(w, b.String())
	return err
}
