// core/fasta/writer.go
package fasta

import (
	"bufio"
	"io"
)

// DefaultWidth is the residue count per line used by Write.
const DefaultWidth = 60

// Write emits rec wrapped at width residues per line (DefaultWidth when
// width <= 0).
func Write(w io.Writer, rec Record, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	bw := bufio.NewWriter(w)
	bw.WriteByte('>')
	bw.WriteString(rec.ID)
	if rec.Description != "" {
		bw.WriteByte(' ')
		bw.WriteString(rec.Description)
	}
	bw.WriteByte('\n')
	for off := 0; off < len(rec.Seq); off += width {
		end := off + width
		if end > len(rec.Seq) {
			end = len(rec.Seq)
		}
		bw.Write(rec.Seq[off:end])
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
