// core/gff3/body.go
package gff3

import (
	"strconv"
	"strings"

	"gffkit/core/attribute"
	"gffkit/core/feature"
	"gffkit/core/gffstr"
	"gffkit/core/so"
	"gffkit/core/style"
)

// line is the checked content of one body line, alive until it has been
// folded into a feature.
type line struct {
	no       int
	seqID    string
	source   string
	typ      string // type column after source remapping
	term     so.Term
	known    bool // term came from the SO table
	start    int
	end      int
	score    float64
	hasScore bool
	strand   feature.Strand
	phase    feature.Phase
	attrs    []attribute.Attribute
}

func (l *line) attr(name string) (attribute.Attribute, bool) { return attribute.Find(l.attrs, name) }
func (l *line) has(name string) bool                         { return attribute.Has(l.attrs, name) }

// Sources whose type column is replaced before SO lookup.
const (
	srcConstrained = "das_constrained_regions"
	srcPhastCons   = "das_phastCons"
	srcSolexa      = "solexa_coverage"
	srcChromSig    = "das_ChromSig"
)

func (s *Session) parseBody(text string) error {
	l, skip, err := s.readBody(text)
	if err != nil || skip {
		return err
	}
	return s.makeFeature(l)
}

// readBody runs the column checks. skip is set for lines on another
// sequence.
func (s *Session) readBody(text string) (*line, bool, error) {
	no := s.lineNo
	if s.region.Name == "" && !s.opts.AdoptSeqID {
		return nil, false, lineErr(no, ErrBody, "no sequence name for this session")
	}
	if len(text) > s.opts.MaxLine {
		return nil, false, lineErr(no, ErrBody, "line longer than %d bytes", s.opts.MaxLine)
	}
	cols := gffstr.Tokenize(text, '\t', true, 0)
	if len(cols) < 8 || len(cols) > 9 {
		return nil, false, lineErr(no, ErrBody, "want 8 or 9 tab-separated fields, found %d", len(cols))
	}
	l := &line{no: no, seqID: cols[0], source: cols[1], typ: cols[2]}

	if l.seqID == "." {
		return nil, false, lineErr(no, ErrBody, "sequence name is \".\"")
	}
	if s.region.Name == "" {
		s.region.Name = l.seqID
		s.log.Info("sequence name taken from first body line", "sequence", l.seqID)
	}
	if !gffstr.SameName(l.seqID, s.region.Name) {
		s.stats.SequenceMismatch++
		return nil, true, nil
	}
	if l.source == "." && !s.opts.AnonSource {
		return nil, false, lineErr(no, ErrBody, "source is \".\"")
	}
	if l.typ == "." {
		return nil, false, lineErr(no, ErrBody, "type is \".\"")
	}

	var ok bool
	if l.start, ok = parseCoord(cols[3]); !ok {
		return nil, false, lineErr(no, ErrBody, "bad start %q", cols[3])
	}
	if l.end, ok = parseCoord(cols[4]); !ok {
		return nil, false, lineErr(no, ErrBody, "bad end %q", cols[4])
	}
	if l.start > l.end {
		return nil, false, lineErr(no, ErrBody, "start %d > end %d", l.start, l.end)
	}
	if l.score, l.hasScore, ok = parseScore(cols[5]); !ok {
		return nil, false, lineErr(no, ErrBody, "bad score %q", cols[5])
	}
	if l.strand, ok = parseStrand(cols[6]); !ok {
		return nil, false, lineErr(no, ErrBody, "bad strand %q", cols[6])
	}
	if l.phase, ok = parsePhase(cols[7]); !ok {
		return nil, false, lineErr(no, ErrBody, "bad phase %q", cols[7])
	}
	l.typ = remapType(l.source, l.typ)
	l.term, l.known = s.terms.Lookup(l.typ)
	if !l.known {
		s.stats.UnknownSO++
		switch s.opts.SOLevel {
		case so.LevelError:
			return nil, false, lineErr(no, ErrBody, "unknown SO term %q", l.typ)
		case so.LevelWarn:
			s.log.Warn("unknown SO term", "line", no, "type", l.typ)
		}
		l.term = so.Term{Name: l.typ, Mode: style.Basic}
	}
	// the type may have been given as an accession, so check the term name
	if cds := l.term.Name == "CDS"; cds && !l.phase.Valid() {
		return nil, false, lineErr(no, ErrBody, "CDS feature without a phase")
	} else if !cds && l.phase.Valid() {
		return nil, false, lineErr(no, ErrBody, "phase given for non-CDS feature of type %q", l.term.Name)
	}
	if l.source == "." {
		l.source = "anon_source (" + l.term.Mode.String() + " type)"
	}

	if len(cols) == 9 && cols[8] != "" && cols[8] != "." {
		attrs, ok := attribute.ParseList(attribute.StripComment(cols[8]), s.syntax)
		if !ok {
			return nil, false, lineErr(no, ErrAttribute, "malformed attribute column")
		}
		l.attrs = attrs
	}
	return l, false, nil
}

// remapType rewrites the type of DAS sources that put the feature kind
// in the source column.
func remapType(source, typ string) string {
	switch {
	case source == srcConstrained:
		return "transcript"
	case strings.Contains(source, srcPhastCons):
		return srcPhastCons
	case strings.Contains(source, srcSolexa):
		return srcSolexa
	case source == srcChromSig:
		return "transcript"
	}
	return typ
}

func parseCoord(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseScore(s string) (float64, bool, bool) {
	if s == "." {
		return 0, false, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	return v, true, true
}

func parseStrand(s string) (feature.Strand, bool) {
	switch s {
	case "+":
		return feature.StrandForward, true
	case "-":
		return feature.StrandReverse, true
	case ".":
		return feature.StrandNone, true
	}
	return feature.StrandNone, false
}

func parsePhase(s string) (feature.Phase, bool) {
	switch s {
	case ".":
		return feature.PhaseNone, true
	case "0":
		return feature.Phase0, true
	case "1":
		return feature.Phase1, true
	case "2":
		return feature.Phase2, true
	}
	return feature.PhaseNone, false
}
