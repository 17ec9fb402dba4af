// core/header/header.go
package header

import (
	"errors"
	"fmt"

	"gffkit/core/gffstr"
)

// ErrDuplicate reports a directive that may only appear once.
var ErrDuplicate = errors.New("duplicate directive")

// Region is the sequence name and coordinate window a session parses.
// A zero Start and End means the window is not known yet.
type Region struct {
	Name       string
	Start, End int
}

func (r Region) HasRange() bool { return r.Start != 0 || r.End != 0 }

// Header accumulates the directives of one stream.
type Header struct {
	Version           int
	SequenceRegion    *SequenceRegion
	FeatureOntology   string
	AttributeOntology string
	SourceOntology    string
	Species           string
	GenomeBuild       *GenomeBuild
	Unknown           []Unknown

	seen    map[Kind]bool
	minimal bool
}

func New() *Header { return &Header{seen: map[Kind]bool{}} }

// Seen reports whether a directive kind has been applied successfully.
func (h *Header) Seen(k Kind) bool { return h.seen[k] }

// Minimal reports whether both a gff-version and a sequence-region
// directive have been applied. Once true it stays true.
func (h *Header) Minimal() bool { return h.minimal }

func (h *Header) updateMinimal() {
	if h.minimal {
		return
	}
	h.minimal = h.seen[KindVersion] && h.seen[KindSequenceRegion]
}

// Apply validates d against the header and the session region and records
// it. lineNo is the 1-based line the directive was read from. A first
// sequence-region fills in a region that has no name or range yet.
// DNA, end-DNA, FASTA and "###" carry no header state and are accepted.
func (h *Header) Apply(d Directive, lineNo int, region *Region) error {
	defer h.updateMinimal()
	once := func(k Kind) error {
		if h.seen[k] {
			return fmt.Errorf("##%s: %w", k, ErrDuplicate)
		}
		h.seen[k] = true
		return nil
	}
	switch v := d.(type) {
	case Version:
		if h.seen[KindVersion] {
			return fmt.Errorf("##gff-version: %w", ErrDuplicate)
		}
		if v.Number != 2 && v.Number != 3 {
			return fmt.Errorf("##gff-version: unsupported version %d", v.Number)
		}
		if v.Number == 3 && lineNo != 1 {
			return fmt.Errorf("##gff-version 3 must be the first line, found on line %d", lineNo)
		}
		h.seen[KindVersion] = true
		h.Version = v.Number
	case SequenceRegion:
		return h.applyRegion(v, region)
	case Ontology:
		if err := once(v.Of); err != nil {
			return err
		}
		switch v.Of {
		case KindFeatureOntology:
			h.FeatureOntology = v.URI
		case KindAttributeOntology:
			h.AttributeOntology = v.URI
		default:
			h.SourceOntology = v.URI
		}
	case Species:
		if err := once(KindSpecies); err != nil {
			return err
		}
		h.Species = v.URI
	case GenomeBuild:
		if err := once(KindGenomeBuild); err != nil {
			return err
		}
		gb := v
		h.GenomeBuild = &gb
	case Unknown:
		h.Unknown = append(h.Unknown, v)
	case DNA, EndDNA, FASTA, Close:
	default:
		return fmt.Errorf("unhandled directive %T", d)
	}
	return nil
}

func (h *Header) applyRegion(v SequenceRegion, region *Region) error {
	if h.seen[KindSequenceRegion] {
		// repeats of an accepted region are harmless
		return nil
	}
	if v.End < v.Start {
		return fmt.Errorf("##sequence-region: end %d < start %d", v.End, v.Start)
	}
	if region != nil {
		if region.Name == "" {
			region.Name = v.Name
		} else if !gffstr.SameName(region.Name, v.Name) {
			return fmt.Errorf("##sequence-region: %q does not match sequence %q", v.Name, region.Name)
		}
		if !region.HasRange() {
			region.Start, region.End = v.Start, v.End
		} else if v.End < region.Start || v.Start > region.End {
			return fmt.Errorf("##sequence-region: %d-%d does not overlap %d-%d", v.Start, v.End, region.Start, region.End)
		}
	}
	sr := v
	h.SequenceRegion = &sr
	h.seen[KindSequenceRegion] = true
	return nil
}
