// core/dump/gap.go
package dump

import (
	"fmt"
	"strconv"
	"strings"

	"gffkit/core/feature"
	"gffkit/core/style"
)

// FormatGap rebuilds a GFF3 Gap string from ordered alignment blocks.
// Reference gaps become N when either neighbouring block marks an intron
// and D otherwise; match gaps become I. Peptide alignments count the
// reference in codons.
func FormatGap(blocks []feature.AlignBlock, homol style.Homol) (string, error) {
	if len(blocks) == 0 {
		return "", fmt.Errorf("no alignment blocks")
	}
	unit := 1
	if homol == style.HomolPeptide {
		unit = 3
	}
	var ops []string
	op := func(kind byte, n int) { ops = append(ops, string(kind)+strconv.Itoa(n)) }

	for i, b := range blocks {
		if i > 0 {
			prev := blocks[i-1]
			tgap := distance(prev.T1, prev.T2, b.T1, b.T2, b.TStrand)
			qgap := distance(prev.Q1, prev.Q2, b.Q1, b.Q2, b.QStrand)
			if tgap < 0 || qgap < 0 {
				return "", fmt.Errorf("blocks %d and %d overlap or are out of order", i-1, i)
			}
			if tgap%unit != 0 {
				return "", fmt.Errorf("reference gap of %d bases is not a whole number of codons", tgap)
			}
			if tgap > 0 {
				kind := byte('D')
				if prev.EndBoundary == feature.BoundaryIntron || b.StartBoundary == feature.BoundaryIntron {
					kind = 'N'
				}
				op(kind, tgap/unit)
			}
			if qgap > 0 {
				op('I', qgap)
			}
		}
		op('M', b.Q2-b.Q1+1)
	}
	return strings.Join(ops, " "), nil
}

// distance is the count of positions strictly between two consecutive
// intervals laid out along strand.
func distance(p1, p2, n1, n2 int, strand feature.Strand) int {
	if strand == feature.StrandReverse {
		return p1 - n2 - 1
	}
	return n1 - p2 - 1
}
