// core/feature/feature.go
package feature

import (
	"fmt"
	"sort"
	"strings"

	"gffkit/core/style"
)

// Strand of a feature or alignment.
type Strand int8

const (
	StrandNone Strand = iota
	StrandForward
	StrandReverse
)

// Char renders the strand as a GFF column value.
func (s Strand) Char() byte {
	switch s {
	case StrandForward:
		return '+'
	case StrandReverse:
		return '-'
	}
	return '.'
}

func (s Strand) String() string { return string(s.Char()) }

// Phase of a CDS segment. PhaseNone marks the "." column.
type Phase int8

const (
	PhaseNone Phase = -1
	Phase0    Phase = 0
	Phase1    Phase = 1
	Phase2    Phase = 2
)

func (p Phase) Valid() bool { return p >= Phase0 && p <= Phase2 }

func (p Phase) Char() byte {
	if !p.Valid() {
		return '.'
	}
	return byte('0' + p)
}

// Boundary tags the junction at either end of an alignment block.
type Boundary int8

const (
	BoundaryEdge Boundary = iota
	BoundaryIntron
	BoundaryDeletion
	BoundaryMatch
	BoundaryNonCanonical
)

func (b Boundary) String() string {
	switch b {
	case BoundaryIntron:
		return "intron"
	case BoundaryDeletion:
		return "deletion"
	case BoundaryMatch:
		return "match"
	case BoundaryNonCanonical:
		return "non_canonical"
	}
	return "edge"
}

// Splice marks splice-site features.
type Splice int8

const (
	SpliceNone Splice = iota
	SpliceFivePrime
	SpliceThreePrime
)

// Span is a closed [X1,X2] coordinate pair.
type Span struct {
	X1 int `json:"x1"`
	X2 int `json:"x2"`
}

func (s Span) Len() int { return s.X2 - s.X1 + 1 }

// AlignBlock is one gapless piece of an alignment. T is the reference,
// Q the aligned (match) sequence.
type AlignBlock struct {
	T1, T2        int
	Q1, Q2        int
	TStrand       Strand
	QStrand       Strand
	StartBoundary Boundary
	EndBoundary   Boundary
}

// CDS records the coding window of a transcript.
type CDS struct {
	Span
	Phase         Phase
	StartNotFound int // 0 when the start was found, else 1..3
	EndNotFound   bool
}

// Transcript is the payload of features built in transcript mode.
type Transcript struct {
	Parents []string // Parent IDs of the transcript line itself, such as a gene
	Exons   []Span
	Introns []Span
	CDS     *CDS
}

// Homol is the payload of features built in alignment mode.
type Homol struct {
	Target       string
	Y1, Y2       int
	TargetStrand Strand
	Type         style.Homol
	PercentID    float64
	HasPercentID bool
	Length       int
	Sequence     string
	Blocks       []AlignBlock
}

// Xref is a db:id pair from Dbxref or Ontology_term.
type Xref struct {
	DB string `json:"db"`
	ID string `json:"id"`
}

// Feature is a single assembled feature.
type Feature struct {
	UniqueID    string
	ID          string // ID attribute, when the line had one
	Name        string // public name
	Source      string
	SOType      string
	Accession   uint32
	Mode        style.Mode
	StyleID     string
	SeqID       string
	X1, X2      int
	Score       float64
	HasScore    bool
	Strand      Strand
	Phase       Phase
	Splice      Splice
	Description string
	URL         string
	Variation   string
	Locus       string
	Alias       []string
	DerivesFrom string
	Dbxref      []Xref
	Ontology    []Xref
	Circular    *bool

	Transcript *Transcript
	Homol      *Homol
}

// CreateName builds the unique id of a feature. Only the name part is
// lower-cased; alignments carry the query range as a second suffix.
func CreateName(mode style.Mode, name string, strand Strand, start, end, qstart, qend int) string {
	base := fmt.Sprintf("%s_'%s'_%d.%d", strings.ToLower(name), strand, start, end)
	if mode == style.Alignment {
		base += fmt.Sprintf("_%d.%d", qstart, qend)
	}
	return base
}

/* ------------------------------ transcripts ----------------------------- */

// AddExon inserts an exon keeping exons sorted and free of duplicates.
func (t *Transcript) AddExon(s Span) bool { return addSpan(&t.Exons, s) }

// AddIntron inserts an intron keeping introns sorted and free of duplicates.
func (t *Transcript) AddIntron(s Span) bool { return addSpan(&t.Introns, s) }

func addSpan(list *[]Span, s Span) bool {
	i := sort.Search(len(*list), func(i int) bool {
		e := (*list)[i]
		return e.X1 > s.X1 || (e.X1 == s.X1 && e.X2 >= s.X2)
	})
	if i < len(*list) && (*list)[i] == s {
		return false
	}
	*list = append(*list, Span{})
	copy((*list)[i+1:], (*list)[i:])
	(*list)[i] = s
	return true
}

// AddCDS widens the coding window to include s. The phase kept is that of
// the 5'-most segment for the given strand.
func (t *Transcript) AddCDS(s Span, strand Strand, phase Phase, startNotFound int, endNotFound bool) {
	if t.CDS == nil {
		t.CDS = &CDS{Span: s, Phase: phase, StartNotFound: startNotFound, EndNotFound: endNotFound}
		return
	}
	c := t.CDS
	fivePrime := (strand != StrandReverse && s.X1 < c.X1) || (strand == StrandReverse && s.X2 > c.X2)
	if fivePrime {
		c.Phase = phase
	}
	if s.X1 < c.X1 {
		c.X1 = s.X1
	}
	if s.X2 > c.X2 {
		c.X2 = s.X2
	}
	if startNotFound != 0 {
		c.StartNotFound = startNotFound
	}
	c.EndNotFound = c.EndNotFound || endNotFound
}
