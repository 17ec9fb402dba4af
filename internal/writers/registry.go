// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

const (
	FormatGFF3    = "gff3"
	FormatJSON    = "json"
	FormatJSONL   = "jsonl"
	FormatYAML    = "yaml"
	FormatSummary = "summary"
)

// FeatureWriters maps an output format to its handler. Handlers register
// in init() blocks.
var FeatureWriters = map[string]func(w io.Writer, p Payload) error{}

// RegisterFeature adds or replaces a handler (last wins).
func RegisterFeature(format string, fn func(io.Writer, Payload) error) {
	FeatureWriters[format] = fn
}

// WriteFeatures dispatches p to the handler for format.
func WriteFeatures(format string, w io.Writer, p Payload) error {
	fn, ok := FeatureWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, p)
}

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(FeatureWriters))
	for f := range FeatureWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
