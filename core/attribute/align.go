// core/attribute/align.go
package attribute

import (
	"fmt"
	"strconv"
	"strings"

	"gffkit/core/feature"
	"gffkit/core/gffstr"
	"gffkit/core/style"
)

// Op is one run of a canonical alignment string.
type Op struct {
	Kind byte // 'M', 'I', 'D', 'N'
	Len  int
}

// Extent is the pair of intervals an alignment string is laid out over.
// Ref is the feature (target sequence), Match the aligned sequence.
type Extent struct {
	RefStart, RefEnd     int
	RefStrand            feature.Strand
	MatchStart, MatchEnd int
	MatchStrand          feature.Strand
	Homol                style.Homol
}

/* ------------------------------- grammars ------------------------------- */

// ParseGapOps reads the GFF3 Gap and exonerate cigar grammar: space
// separated runs written op-then-length ("M8 D3 M6"). The op and the
// length may also be separate tokens ("M 8 D 3 M 6").
func ParseGapOps(s string) ([]Op, error) {
	toks := gffstr.Tokenize(s, ' ', false, 0)
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty alignment string", ErrGrammar)
	}
	var ops []Op
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		kind := tok[0]
		num := tok[1:]
		if num == "" {
			if i+1 >= len(toks) {
				return nil, fmt.Errorf("%w: %q has no length", ErrGrammar, tok)
			}
			i++
			num = toks[i]
		}
		n, err := strconv.Atoi(num)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad run length %q", ErrGrammar, num)
		}
		switch kind {
		case 'M', 'I', 'D', 'N':
		default:
			return nil, fmt.Errorf("%w: unsupported operator %q", ErrGrammar, kind)
		}
		ops = append(ops, Op{Kind: kind, Len: n})
	}
	return ops, nil
}

// ParseEnsemblOps reads Ensembl cigar ("8M3D6M"). A run without a length
// counts as one. Ensembl writes I and D from the other sequence's point of
// view, so they are swapped.
func ParseEnsemblOps(s string) ([]Op, error) {
	return parseLengthFirst(s, true, func(c byte) (byte, bool, error) {
		switch c {
		case 'M':
			return 'M', true, nil
		case 'I':
			return 'D', true, nil
		case 'D':
			return 'I', true, nil
		}
		return 0, false, fmt.Errorf("%w: unsupported operator %q", ErrGrammar, c)
	})
}

// ParseBAMOps reads SAM/BAM cigar. X and = count as matches; padding and
// soft clips are skipped; hard clips are rejected.
func ParseBAMOps(s string) ([]Op, error) {
	return parseLengthFirst(s, false, func(c byte) (byte, bool, error) {
		switch c {
		case 'M', 'X', '=':
			return 'M', true, nil
		case 'I', 'D', 'N':
			return c, true, nil
		case 'P', 'S':
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: unsupported operator %q", ErrGrammar, c)
	})
}

// ParseVulgarOps is not supported; every input fails.
func ParseVulgarOps(s string) ([]Op, error) {
	return nil, fmt.Errorf("%w: vulgar alignment strings are not supported", ErrGrammar)
}

func parseLengthFirst(s string, lengthOptional bool, mapOp func(byte) (byte, bool, error)) ([]Op, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty alignment string", ErrGrammar)
	}
	var ops []Op
	n, digits := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			n = n*10 + int(c-'0')
			digits++
			continue
		}
		if digits == 0 {
			if !lengthOptional {
				return nil, fmt.Errorf("%w: operator %q has no length", ErrGrammar, c)
			}
			n = 1
		}
		kind, keep, err := mapOp(c)
		if err != nil {
			return nil, err
		}
		if keep && n > 0 {
			ops = append(ops, Op{Kind: kind, Len: n})
		}
		n, digits = 0, 0
	}
	if digits != 0 {
		return nil, fmt.Errorf("%w: trailing length without operator", ErrGrammar)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no alignment runs", ErrGrammar)
	}
	return ops, nil
}

/* -------------------------------- blocks -------------------------------- */

// Blocks lays ops out over ext and returns the gapless blocks. Peptide
// matches advance the reference three bases per residue.
func Blocks(ops []Op, ext Extent) ([]feature.AlignBlock, error) {
	unit := 1
	if ext.Homol == style.HomolPeptide {
		unit = 3
	}
	refFwd := ext.RefStrand != feature.StrandReverse
	matchFwd := ext.MatchStrand != feature.StrandReverse
	t := ext.RefStart
	if !refFwd {
		t = ext.RefEnd
	}
	q := ext.MatchStart
	if !matchFwd {
		q = ext.MatchEnd
	}
	step := func(cur *int, fwd bool, n int) (lo, hi int) {
		if fwd {
			lo, hi = *cur, *cur+n-1
			*cur += n
		} else {
			lo, hi = *cur-n+1, *cur
			*cur -= n
		}
		return lo, hi
	}

	var blocks []feature.AlignBlock
	boundary := feature.BoundaryEdge
	mark := func(b feature.Boundary) {
		boundary = b
		if len(blocks) > 0 {
			blocks[len(blocks)-1].EndBoundary = b
		}
	}
	for _, op := range ops {
		switch op.Kind {
		case 'M':
			t1, t2 := step(&t, refFwd, op.Len*unit)
			q1, q2 := step(&q, matchFwd, op.Len)
			if t1 < ext.RefStart || t2 > ext.RefEnd {
				return nil, fmt.Errorf("%w: alignment runs past the feature", ErrGrammar)
			}
			blocks = append(blocks, feature.AlignBlock{
				T1: t1, T2: t2, Q1: q1, Q2: q2,
				TStrand: ext.RefStrand, QStrand: ext.MatchStrand,
				StartBoundary: boundary, EndBoundary: feature.BoundaryEdge,
			})
			boundary = feature.BoundaryMatch
		case 'N':
			step(&t, refFwd, op.Len*unit)
			mark(feature.BoundaryIntron)
		case 'D':
			step(&t, refFwd, op.Len*unit)
			mark(feature.BoundaryDeletion)
		case 'I':
			step(&q, matchFwd, op.Len)
			// an N or D in the same gap keeps its tag
			if boundary != feature.BoundaryIntron && boundary != feature.BoundaryDeletion {
				mark(feature.BoundaryMatch)
			}
		default:
			return nil, fmt.Errorf("%w: unsupported operator %q", ErrGrammar, op.Kind)
		}
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: alignment has no match runs", ErrGrammar)
	}
	return blocks, nil
}

// ParseAlignment decodes one of the gapped alignment attributes into
// blocks laid out over ext.
func ParseAlignment(a Attribute, ext Extent) ([]feature.AlignBlock, error) {
	var (
		ops []Op
		err error
	)
	switch a.Name {
	case Gap, CigarExonerate:
		ops, err = ParseGapOps(a.Value)
	case CigarEnsembl:
		ops, err = ParseEnsemblOps(a.Value)
	case CigarBAM:
		ops, err = ParseBAMOps(a.Value)
	case VulgarExon:
		ops, err = ParseVulgarOps(a.Value)
	default:
		return nil, expect(a, Gap, CigarExonerate, CigarEnsembl, CigarBAM, VulgarExon)
	}
	if err != nil {
		return nil, err
	}
	return Blocks(ops, ext)
}

// ParseGaps reads the legacy "Gaps" attribute: comma separated groups of
// "t1 t2 q1 q2". One bad group fails the whole attribute.
func ParseGaps(a Attribute, refStrand, matchStrand feature.Strand) ([]feature.AlignBlock, error) {
	if err := expect(a, Gaps); err != nil {
		return nil, err
	}
	groups := gffstr.Tokenize(a.Value, ',', false, 0)
	if len(groups) == 0 {
		return nil, grammar(a, "no gap groups")
	}
	out := make([]feature.AlignBlock, 0, len(groups))
	for _, g := range groups {
		f := gffstr.Tokenize(g, ' ', false, 0)
		if len(f) != 4 {
			return nil, grammar(a, "want t1 t2 q1 q2")
		}
		var v [4]int
		for i, s := range f {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return nil, grammar(a, "coordinates must be positive integers")
			}
			v[i] = n
		}
		if v[0] > v[1] || v[2] > v[3] {
			return nil, grammar(a, "start > end in gap group")
		}
		out = append(out, feature.AlignBlock{
			T1: v[0], T2: v[1], Q1: v[2], Q2: v[3],
			TStrand: refStrand, QStrand: matchStrand,
		})
	}
	return out, nil
}
