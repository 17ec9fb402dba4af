// core/style/style.go
package style

import (
	"fmt"
	"strings"
)

// Mode is the structural category a feature is built as.
type Mode int

const (
	Invalid Mode = iota
	Basic
	Alignment
	Transcript
	Sequence
	AssemblyPath
	Locus
	Text
	Graph
	Glyph
	Plain
	Meta
)

var modeNames = [...]string{
	Invalid:      "invalid",
	Basic:        "basic",
	Alignment:    "alignment",
	Transcript:   "transcript",
	Sequence:     "sequence",
	AssemblyPath: "assembly_path",
	Locus:        "locus",
	Text:         "text",
	Graph:        "graph",
	Glyph:        "glyph",
	Plain:        "plain",
	Meta:         "meta",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return modeNames[Invalid]
	}
	return modeNames[m]
}

// ParseMode accepts the lower-case names produced by String, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == s && Mode(i) != Invalid {
			return Mode(i), nil
		}
	}
	return Invalid, fmt.Errorf("unknown style mode %q", s)
}

// Homol is the sequence type an alignment is made against.
type Homol int

const (
	HomolNone Homol = iota
	HomolDNA
	HomolPeptide
	HomolTranslated
)

var homolNames = [...]string{"none", "dna", "peptide", "translated"}

func (h Homol) String() string {
	if h < 0 || int(h) >= len(homolNames) {
		return homolNames[HomolNone]
	}
	return homolNames[h]
}

// ParseHomol accepts "", "none", "dna", "peptide" or "translated".
func ParseHomol(s string) (Homol, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return HomolNone, nil
	}
	for i, n := range homolNames {
		if n == s {
			return Homol(i), nil
		}
	}
	return HomolNone, fmt.Errorf("unknown homol type %q", s)
}

// Style is the presentation record a featureset is bound to.
type Style struct {
	ID    string // lower-cased name
	Name  string
	Mode  Mode
	Homol Homol
}

// New builds a style with a normalised ID.
func New(name string, mode Mode) *Style {
	return &Style{ID: strings.ToLower(name), Name: name, Mode: mode}
}
