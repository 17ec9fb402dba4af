// core/attribute/attribute.go
package attribute

import (
	"errors"
	"strings"

	"gffkit/core/gffstr"
)

var (
	// ErrWrongName is returned when a decoder is handed an attribute of
	// another kind.
	ErrWrongName = errors.New("attribute: wrong name")
	// ErrGrammar is returned when the value does not fit the decoder grammar.
	ErrGrammar = errors.New("attribute: bad value")
)

// Attribute names the parser understands. GFF3 names come first, followed
// by the legacy names still found in GFF2 streams.
const (
	ID             = "ID"
	Name           = "Name"
	Alias          = "Alias"
	Parent         = "Parent"
	Target         = "Target"
	Gap            = "Gap"
	DerivesFrom    = "Derives_from"
	Note           = "Note"
	Dbxref         = "Dbxref"
	OntologyTerm   = "Ontology_term"
	IsCircular     = "Is_circular"
	CigarExonerate = "cigar_exonerate"
	CigarEnsembl   = "cigar_ensembl"
	CigarBAM       = "cigar_bam"
	VulgarExon     = "vulgar_exonerate"
	Gaps           = "Gaps"
	Source         = "Source"
	KnownName      = "Known_name"
	LocusV3        = "locus"
	URL            = "url"
	Variation      = "ensembl_variation"
	PercentID      = "percentID"
	LengthV3       = "length"
	Sequence       = "sequence"
	StartNotFound  = "start_not_found"
	EndNotFound    = "end_not_found"

	Align          = "Align"
	Class          = "Class"
	Length         = "Length"
	Locus          = "Locus"
	AssemblySource = "Assembly_source"
)

var multivalued = map[string]bool{
	Alias: true, Parent: true, Note: true, Dbxref: true, OntologyTerm: true,
}

// IsMultivalued reports whether values of name are comma-separated lists.
func IsMultivalued(name string) bool { return multivalued[name] }

// Attribute is one name/value unit of the ninth column.
type Attribute struct {
	Name   string
	Value  string
	Quoted bool // the value was wrapped in double quotes that were removed
}

// Values splits a multivalued attribute on commas. Other attributes yield
// their value unchanged.
func (a Attribute) Values() []string {
	if !IsMultivalued(a.Name) {
		return []string{a.Value}
	}
	return gffstr.Tokenize(a.Value, ',', false, 0)
}

// Syntax describes the attribute column layout of a GFF version.
type Syntax struct {
	Delim        byte // between name and value
	RemoveQuotes bool
}

// SyntaxFor returns the attribute syntax for GFF version 2 or 3.
func SyntaxFor(version int) Syntax {
	if version == 2 {
		return Syntax{Delim: ' ', RemoveQuotes: true}
	}
	return Syntax{Delim: '=', RemoveQuotes: true}
}

// Parse reads a single "name<delim>value" unit. A bare name yields an
// attribute with an empty value.
func Parse(s string, syn Syntax) (Attribute, bool) {
	toks := gffstr.Tokenize(s, syn.Delim, true, 2)
	if len(toks) == 0 || toks[0] == "" {
		return Attribute{}, false
	}
	a := Attribute{Name: toks[0]}
	if len(toks) == 2 {
		a.Value = toks[1]
	}
	if syn.RemoveQuotes {
		a.Value, a.Quoted = removeQuotes(a.Value)
	}
	return a, true
}

func removeQuotes(v string) (string, bool) {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1], true
	}
	return v, false
}

// ParseList reads a whole attribute column. Units are separated by ';'
// outside double quotes and empty units are ignored. Any malformed unit
// fails the list.
func ParseList(column string, syn Syntax) ([]Attribute, bool) {
	toks := gffstr.TokenizeQuoted(column, ';', '"', false)
	out := make([]Attribute, 0, len(toks))
	for _, tok := range toks {
		a, ok := Parse(tok, syn)
		if !ok {
			return nil, false
		}
		out = append(out, a)
	}
	return out, true
}

// Find returns the first attribute called name.
func Find(list []Attribute, name string) (Attribute, bool) {
	for _, a := range list {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Has reports whether list contains an attribute called name.
func Has(list []Attribute, name string) bool {
	_, ok := Find(list, name)
	return ok
}

// StripComment removes a trailing '#' comment that sits outside quotes.
func StripComment(column string) string {
	if pos := gffstr.FindUnquoted(column, '"', '#'); len(pos) > 0 {
		return strings.TrimRight(column[:pos[0]], " \t")
	}
	return column
}
