// internal/writers/api.go
package writers

import (
	"gffkit/core/feature"
	"gffkit/core/gff3"
	"gffkit/core/so"
	"gffkit/pkg/api"
)

// ToAPIFeature converts a parsed feature to its v1 wire form.
func ToAPIFeature(f *feature.Feature) api.FeatureV1 {
	out := api.FeatureV1{
		ID:          f.UniqueID,
		Name:        f.Name,
		Source:      f.Source,
		Type:        f.SOType,
		Mode:        f.Mode.String(),
		Style:       f.StyleID,
		SequenceID:  f.SeqID,
		Start:       f.X1,
		End:         f.X2,
		Strand:      f.Strand.String(),
		AttrID:      f.ID,
		Description: f.Description,
		URL:         f.URL,
		Variation:   f.Variation,
		Locus:       f.Locus,
		Alias:       f.Alias,
		DerivesFrom: f.DerivesFrom,
		Dbxref:      xrefStrings(f.Dbxref),
		Ontology:    xrefStrings(f.Ontology),
		Circular:    f.Circular,
	}
	if f.Accession != 0 {
		out.Accession = so.FormatAccession(f.Accession)
	}
	if f.HasScore {
		s := f.Score
		out.Score = &s
	}
	if f.Phase.Valid() {
		p := int(f.Phase)
		out.Phase = &p
	}
	switch f.Splice {
	case feature.SpliceFivePrime:
		out.Splice = "five_prime"
	case feature.SpliceThreePrime:
		out.Splice = "three_prime"
	}
	if t := f.Transcript; t != nil {
		out.Transcript = toAPITranscript(t)
	}
	if h := f.Homol; h != nil {
		out.Alignment = toAPIAlignment(h)
	}
	return out
}

func toAPITranscript(t *feature.Transcript) *api.TranscriptV1 {
	out := &api.TranscriptV1{Parents: t.Parents, Exons: spans(t.Exons), Introns: spans(t.Introns)}
	if c := t.CDS; c != nil {
		out.CDS = &api.SpanV1{Start: c.X1, End: c.X2}
		if c.Phase.Valid() {
			p := int(c.Phase)
			out.CDSPhase = &p
		}
		out.StartNotFound = c.StartNotFound
		out.EndNotFound = c.EndNotFound
	}
	return out
}

func toAPIAlignment(h *feature.Homol) *api.AlignmentV1 {
	out := &api.AlignmentV1{
		Target:      h.Target,
		TargetStart: h.Y1,
		TargetEnd:   h.Y2,
		Homol:       h.Type.String(),
		Length:      h.Length,
		Sequence:    h.Sequence,
	}
	if h.TargetStrand != feature.StrandNone {
		out.TargetStrand = h.TargetStrand.String()
	}
	if h.HasPercentID {
		p := h.PercentID
		out.PercentID = &p
	}
	for _, b := range h.Blocks {
		out.Blocks = append(out.Blocks, api.AlignBlockV1{TStart: b.T1, TEnd: b.T2, QStart: b.Q1, QEnd: b.Q2})
	}
	return out
}

func spans(in []feature.Span) []api.SpanV1 {
	if len(in) == 0 {
		return nil
	}
	out := make([]api.SpanV1, len(in))
	for i, s := range in {
		out[i] = api.SpanV1{Start: s.X1, End: s.X2}
	}
	return out
}

func xrefStrings(xs []feature.Xref) []string {
	if len(xs) == 0 {
		return nil
	}
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.DB + ":" + x.ID
	}
	return out
}

// ToAPIStats converts session counters for source.
func ToAPIStats(source string, st gff3.Stats) api.StatsV1 {
	return api.StatsV1{
		Source:           source,
		Lines:            st.Lines,
		Features:         st.Features,
		SequenceMismatch: st.SequenceMismatch,
		Excluded:         st.Excluded,
		UnknownSO:        st.UnknownSO,
		Orphans:          st.Orphans,
		Errors:           st.Errors,
	}
}
