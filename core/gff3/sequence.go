// core/gff3/sequence.go
package gff3

import (
	"strings"

	"gffkit/core/fasta"
)

func (s *Session) beginSequence(text string) error {
	if !strings.HasPrefix(text, "##DNA") {
		return lineErr(s.lineNo, ErrSequence, "sequence block must open with ##DNA")
	}
	if s.dnaSeen {
		return lineErr(s.lineNo, ErrSequence, "second ##DNA block")
	}
	if s.region.Name == "" {
		return lineErr(s.lineNo, ErrSequence, "##DNA block but no sequence name for this session")
	}
	s.dnaSeen = true
	s.dna.Reset()
	return nil
}

func (s *Session) endSequence(text string) error {
	if !strings.HasPrefix(text, "##end-DNA") {
		return lineErr(s.lineNo, ErrSequence, "sequence block must close with ##end-DNA")
	}
	seq := s.dna.String()
	s.dna.Reset()
	if s.opts.CheckSeqLen && s.region.HasRange() {
		if want := s.region.End - s.region.Start + 1; want != len(seq) {
			return lineErr(s.lineNo, ErrSequence, "sequence length %d does not match range length %d", len(seq), want)
		}
	}
	s.sequences = append(s.sequences, fasta.Record{ID: s.region.Name, Seq: []byte(seq)})
	return nil
}

// parseSequenceLine appends a "##ACGT..." line to the open block.
func (s *Session) parseSequenceLine(text string) error {
	if strings.HasPrefix(text, "##DNA") {
		return nil
	}
	if !strings.HasPrefix(text, "##") {
		return lineErr(s.lineNo, ErrSequence, "sequence line must start with ##")
	}
	s.dna.WriteString(strings.TrimSpace(text[2:]))
	return nil
}

func (s *Session) beginFasta(text string) error {
	if !strings.HasPrefix(text, "##FASTA") {
		return lineErr(s.lineNo, ErrFasta, "FASTA section must open with ##FASTA")
	}
	if s.fastaSeen {
		return lineErr(s.lineNo, ErrFasta, "second ##FASTA section")
	}
	s.fastaSeen = true
	return nil
}

func (s *Session) parseFastaLine(text string) error {
	if strings.HasPrefix(text, "##FASTA") {
		return nil
	}
	if err := s.fasta.Feed([]byte(text)); err != nil {
		return lineErr(s.lineNo, ErrFasta, "%v", err)
	}
	return nil
}
