// core/style/set.go
package style

import (
	"sort"
	"strings"
)

// Set resolves the style for a featureset. Lookups are case-insensitive.
// The zero value is not usable; call NewSet.
type Set struct {
	bySource map[string]*Style // explicit source -> style bindings
	byID     map[string]*Style
}

func NewSet() *Set {
	return &Set{bySource: map[string]*Style{}, byID: map[string]*Style{}}
}

// Defaults returns a set holding one style per mode, named after the mode.
// These are the fallbacks used when a source has no explicit binding.
func Defaults() *Set {
	s := NewSet()
	for _, m := range []Mode{Basic, Alignment, Transcript, Sequence, AssemblyPath, Locus, Text, Graph, Glyph, Plain, Meta} {
		s.Add(New(m.String(), m))
	}
	return s
}

// Add registers st under its ID, replacing any previous style of that ID.
func (s *Set) Add(st *Style) {
	if st == nil {
		return
	}
	if st.ID == "" {
		st.ID = strings.ToLower(st.Name)
	}
	s.byID[st.ID] = st
}

// Bind attaches st to a featureset source name and registers the style.
func (s *Set) Bind(source string, st *Style) {
	s.Add(st)
	s.bySource[strings.ToLower(source)] = st
}

// Get returns the style with the given ID.
func (s *Set) Get(id string) (*Style, bool) {
	st, ok := s.byID[strings.ToLower(id)]
	return st, ok
}

// Source returns the style explicitly bound to a source.
func (s *Set) Source(source string) (*Style, bool) {
	st, ok := s.bySource[strings.ToLower(source)]
	return st, ok
}

// Resolve finds the style for source, falling back to the default style
// for mode. explicit reports whether the source binding was used.
func (s *Set) Resolve(source string, mode Mode) (st *Style, explicit bool) {
	if st, ok := s.Source(source); ok {
		return st, true
	}
	st, _ = s.Get(mode.String())
	return st, false
}

// Sources lists the bound source names in sorted order.
func (s *Set) Sources() []string {
	out := make([]string, 0, len(s.bySource))
	for k := range s.bySource {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
