// core/so/so.go
package so

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gffkit/core/style"
)

// MaxAccession is the largest accession an "SO:nnnnnnn" string may carry.
const MaxAccession = 9999999

// Accessions of the two graph terms some DAS sources use as feature types.
// They are not part of the ontology and are added to every table.
const (
	AccPhastCons      = 9999001
	AccSolexaCoverage = 9999002
)

// SetName identifies one of the term tables.
type SetName string

const (
	SOFA       SetName = "sofa"
	SOXP       SetName = "soxp"
	SOXPSimple SetName = "soxp-simple"
)

// ParseSetName maps a configuration value onto a table name.
func ParseSetName(s string) (SetName, error) {
	switch SetName(strings.ToLower(strings.TrimSpace(s))) {
	case SOFA, "":
		return SOFA, nil
	case SOXP:
		return SOXP, nil
	case SOXPSimple, "soxpsimple", "soxp_simple":
		return SOXPSimple, nil
	}
	return "", fmt.Errorf("unknown SO set %q", s)
}

// ErrorLevel decides what happens to a body line whose type is not found.
type ErrorLevel int

const (
	LevelNone  ErrorLevel = iota // accept as an unknown basic feature
	LevelWarn                    // log and accept
	LevelError                   // reject the line
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "none"
}

func ParseErrorLevel(s string) (ErrorLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LevelNone, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	}
	return LevelNone, fmt.Errorf("unknown SO error level %q", s)
}

// Term is one entry of a table.
type Term struct {
	Accession uint32
	Name      string
	Mode      style.Mode
	Homol     style.Homol
}

// ID renders the accession in "SO:0000147" form.
func (t Term) ID() string { return FormatAccession(t.Accession) }

// ParseAccession reads an "SO:nnnnnnn" string. The prefix is required and
// the number must fit in seven digits.
func ParseAccession(s string) (uint32, bool) {
	if len(s) < 4 || !strings.EqualFold(s[:3], "SO:") {
		return 0, false
	}
	digits := s[3:]
	if len(digits) > 7 {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || n > MaxAccession {
		return 0, false
	}
	return uint32(n), true
}

func FormatAccession(acc uint32) string { return fmt.Sprintf("SO:%07d", acc) }

/* ------------------------------ Collection ------------------------------ */

// Collection is one read-only term table.
type Collection struct {
	name   SetName
	byAcc  map[uint32]Term
	byName map[string]Term
}

func newCollection(name SetName) *Collection {
	return &Collection{name: name, byAcc: map[uint32]Term{}, byName: map[string]Term{}}
}

func (c *Collection) add(t Term) {
	c.byAcc[t.Accession] = t
	c.byName[t.Name] = t
}

func (c *Collection) Name() SetName { return c.name }
func (c *Collection) Len() int      { return len(c.byAcc) }

// ByAccession resolves an accession.
func (c *Collection) ByAccession(acc uint32) (Term, bool) {
	t, ok := c.byAcc[acc]
	return t, ok
}

// ByName resolves an exact, case-sensitive term name.
func (c *Collection) ByName(name string) (Term, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Lookup resolves a GFF type column: an accession string first, then a name.
func (c *Collection) Lookup(typ string) (Term, bool) {
	if acc, ok := ParseAccession(typ); ok {
		return c.ByAccession(acc)
	}
	return c.ByName(typ)
}

// Terms returns all entries ordered by accession.
func (c *Collection) Terms() []Term {
	out := make([]Term, 0, len(c.byAcc))
	for _, t := range c.byAcc {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Accession < out[j].Accession })
	return out
}

/* ------------------------------- Registry ------------------------------- */

// Registry holds the named tables. It is immutable after construction and
// safe for concurrent readers.
type Registry struct {
	sets map[SetName]*Collection
}

// Collection returns the table for name.
func (r *Registry) Collection(name SetName) (*Collection, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.sets[name]
	return c, ok
}

// Names lists the tables held.
func (r *Registry) Names() []SetName {
	out := make([]SetName, 0, len(r.sets))
	for n := range r.sets {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// With returns a registry sharing r's tables except name, which is
// replaced by c.
func (r *Registry) With(name SetName, c *Collection) *Registry {
	nr := &Registry{sets: make(map[SetName]*Collection, len(r.sets)+1)}
	for k, v := range r.sets {
		nr.sets[k] = v
	}
	c.name = name
	nr.sets[name] = c
	return nr
}

func addGraphTerms(c *Collection) {
	c.add(Term{Accession: AccPhastCons, Name: "das_phastCons", Mode: style.Graph})
	c.add(Term{Accession: AccSolexaCoverage, Name: "solexa_coverage", Mode: style.Graph})
}
