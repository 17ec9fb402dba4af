// core/fasta/reader.go
package fasta

import (
	"bytes"
	"errors"
	"fmt"
)

// Record is one named sequence.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

// ErrNoRecord is returned for residue lines seen before any ">" header.
var ErrNoRecord = errors.New("fasta: sequence line before header")

// Builder assembles records from lines fed one at a time.
type Builder struct {
	recs []Record
}

// Feed consumes one line. A ">" line opens a record; any other non-blank
// line is appended to the open record with surrounding space removed.
func (b *Builder) Feed(line []byte) error {
	line = bytes.TrimRight(line, "\r\n")
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}
	if line[0] == '>' {
		id, desc := parseHeader(line[1:])
		if id == "" {
			return fmt.Errorf("fasta: header without a name")
		}
		b.recs = append(b.recs, Record{ID: id, Description: desc})
		return nil
	}
	if len(b.recs) == 0 {
		return ErrNoRecord
	}
	cur := &b.recs[len(b.recs)-1]
	cur.Seq = append(cur.Seq, bytes.TrimSpace(line)...)
	return nil
}

// Records returns the records built so far.
func (b *Builder) Records() []Record { return b.recs }

// Len is the number of records opened.
func (b *Builder) Len() int { return len(b.recs) }

func parseHeader(hdr []byte) (id, desc string) {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i]), string(bytes.TrimSpace(hdr[i+1:]))
	}
	return string(hdr), ""
}
