// core/header/directive.go
package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gffkit/core/gffstr"
)

// Kind enumerates the pragma types.
type Kind int

const (
	KindUnknown Kind = iota
	KindVersion
	KindDNA
	KindEndDNA
	KindSequenceRegion
	KindFeatureOntology
	KindAttributeOntology
	KindSourceOntology
	KindSpecies
	KindGenomeBuild
	KindFASTA
	KindClose
)

var kindNames = map[Kind]string{
	KindUnknown:           "",
	KindVersion:           "gff-version",
	KindDNA:               "DNA",
	KindEndDNA:            "end-DNA",
	KindSequenceRegion:    "sequence-region",
	KindFeatureOntology:   "feature-ontology",
	KindAttributeOntology: "attribute-ontology",
	KindSourceOntology:    "source-ontology",
	KindSpecies:           "species",
	KindGenomeBuild:       "genome-build",
	KindFASTA:             "FASTA",
	KindClose:             "#",
}

func (k Kind) String() string { return kindNames[k] }

// Directive is one parsed "##" line. Each kind carries only its payload.
type Directive interface {
	Kind() Kind
}

type Version struct{ Number int }
type DNA struct{}
type EndDNA struct{}
type FASTA struct{}
type Close struct{}

type SequenceRegion struct {
	Name       string
	Start, End int
}

// Ontology covers feature-, attribute- and source-ontology.
type Ontology struct {
	Of  Kind
	URI string
}

type Species struct{ URI string }

type GenomeBuild struct {
	Source string
	Name   string
}

// Unknown keeps pragmas the parser has no rules for.
type Unknown struct {
	Name string
	Text string
}

func (Version) Kind() Kind        { return KindVersion }
func (DNA) Kind() Kind            { return KindDNA }
func (EndDNA) Kind() Kind         { return KindEndDNA }
func (FASTA) Kind() Kind          { return KindFASTA }
func (Close) Kind() Kind          { return KindClose }
func (SequenceRegion) Kind() Kind { return KindSequenceRegion }
func (o Ontology) Kind() Kind     { return o.Of }
func (Species) Kind() Kind        { return KindSpecies }
func (GenomeBuild) Kind() Kind    { return KindGenomeBuild }
func (Unknown) Kind() Kind        { return KindUnknown }

// ErrArity reports a directive with the wrong number of fields.
var ErrArity = errors.New("wrong number of fields")

// Parse reads one line starting with "##". It checks field counts and
// payload types; semantic checks against a header happen in Apply.
func Parse(line string) (Directive, error) {
	if !strings.HasPrefix(line, "##") {
		return nil, fmt.Errorf("not a directive: %q", line)
	}
	body := line[2:]
	if body == "#" {
		return Close{}, nil
	}
	f := gffstr.Tokenize(strings.ReplaceAll(body, "\t", " "), ' ', false, 0)
	if len(f) == 0 {
		return Unknown{}, nil
	}
	name, args := f[0], f[1:]
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("##%s: %w (want %d, got %d)", name, ErrArity, n, len(args))
		}
		return nil
	}
	switch name {
	case "gff-version":
		if err := arity(1); err != nil {
			return nil, err
		}
		major, _, _ := strings.Cut(args[0], ".")
		n, err := strconv.Atoi(major)
		if err != nil {
			return nil, fmt.Errorf("##gff-version: bad version %q", args[0])
		}
		return Version{Number: n}, nil
	case "DNA":
		return DNA{}, nil
	case "end-DNA":
		return EndDNA{}, nil
	case "FASTA":
		return FASTA{}, nil
	case "sequence-region":
		if err := arity(3); err != nil {
			return nil, err
		}
		start, err1 := strconv.Atoi(args[1])
		end, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("##sequence-region: bad coordinates %q %q", args[1], args[2])
		}
		return SequenceRegion{Name: args[0], Start: start, End: end}, nil
	case "feature-ontology", "attribute-ontology", "source-ontology":
		if err := arity(1); err != nil {
			return nil, err
		}
		of := map[string]Kind{
			"feature-ontology":   KindFeatureOntology,
			"attribute-ontology": KindAttributeOntology,
			"source-ontology":    KindSourceOntology,
		}[name]
		return Ontology{Of: of, URI: args[0]}, nil
	case "species":
		if err := arity(1); err != nil {
			return nil, err
		}
		return Species{URI: args[0]}, nil
	case "genome-build":
		if err := arity(2); err != nil {
			return nil, err
		}
		return GenomeBuild{Source: args[0], Name: args[1]}, nil
	}
	return Unknown{Name: name, Text: strings.Join(args, " ")}, nil
}
