// core/gff3/assemble.go
package gff3

import (
	"strings"

	"gffkit/core/attribute"
	"gffkit/core/feature"
	"gffkit/core/style"
)

const noNameGiven = "no_name_given"

func (l *line) id() string {
	a, ok := l.attr(attribute.ID)
	if !ok {
		return ""
	}
	id, err := attribute.ParseID(a)
	if err != nil {
		return ""
	}
	return id
}

func (l *line) parents() []string {
	a, ok := l.attr(attribute.Parent)
	if !ok {
		return nil
	}
	p, err := attribute.ParseParent(a)
	if err != nil {
		return nil
	}
	return p
}

func (l *line) name() string {
	a, ok := l.attr(attribute.Name)
	if !ok {
		return ""
	}
	n, err := attribute.ParseName(a)
	if err != nil {
		return ""
	}
	return n
}

// parserSet returns the ledger for source, creating the featureset on
// first use.
func (s *Session) parserSet(source string, st *style.Style) *parserSet {
	key := strings.ToLower(source)
	if ps, ok := s.sets[key]; ok {
		return ps
	}
	set := s.store.Set(source)
	set.StyleID = st.ID
	ps := &parserSet{set: set, ids: map[string]string{}, pending: map[string][]*line{}}
	s.sets[key] = ps
	return ps
}

// makeFeature folds a checked body line into the store.
func (s *Session) makeFeature(l *line) error {
	mode := l.term.Mode
	st, explicit := s.opts.Styles.Resolve(l.source, mode)
	if st == nil {
		st = style.New(mode.String(), mode)
	}
	if explicit && st.Mode != mode {
		return lineErr(l.no, ErrBody, "feature mode %s does not match featureset style %q (%s); feature not created", mode, st.Name, st.Mode)
	}
	if s.parentExcluded(l) {
		s.exclude(l)
		return nil
	}
	if s.opts.LocusSet != "" {
		s.makeLocus(l)
	}
	ps := s.parserSet(l.source, st)
	switch mode {
	case style.Transcript:
		return s.makeTranscript(ps, l, st)
	case style.Alignment:
		return s.makeAlignment(ps, l, st, explicit)
	}
	return s.makeDefault(ps, l, st)
}

// newFeature fills the fields every mode shares.
func (s *Session) newFeature(l *line, st *style.Style, uniqueID, name string, x1, x2 int) *feature.Feature {
	f := &feature.Feature{
		UniqueID:  uniqueID,
		ID:        l.id(),
		Name:      name,
		Source:    l.source,
		SOType:    l.term.Name,
		Accession: l.term.Accession,
		Mode:      l.term.Mode,
		StyleID:   st.ID,
		SeqID:     l.seqID,
		X1:        x1,
		X2:        x2,
		Score:     l.score,
		HasScore:  l.hasScore,
		Strand:    l.strand,
		Phase:     l.phase,
	}
	s.decorate(f, l)
	return f
}

// decorate copies the optional attributes every feature may carry. Bad
// values are logged and left out.
func (s *Session) decorate(f *feature.Feature, l *line) {
	skip := func(err error) {
		s.log.Debug("attribute ignored", "line", l.no, "err", err)
	}
	for _, a := range l.attrs {
		var err error
		switch a.Name {
		case attribute.URL:
			f.URL, err = attribute.ParseURL(a)
		case attribute.Variation:
			var allele string
			allele, _, err = attribute.ParseVariation(a)
			f.Variation = allele
		case attribute.Note:
			f.Description, err = attribute.ParseNote(a)
		case attribute.Dbxref:
			var x []feature.Xref
			if x, err = attribute.ParseDbxref(a); err == nil {
				f.Dbxref = append(f.Dbxref, x...)
			}
		case attribute.OntologyTerm:
			var x []feature.Xref
			if x, err = attribute.ParseOntologyTerm(a); err == nil {
				f.Ontology = append(f.Ontology, x...)
			}
		case attribute.Alias:
			var al []string
			if al, err = attribute.ParseAlias(a); err == nil {
				f.Alias = append(f.Alias, al...)
			}
		case attribute.DerivesFrom:
			f.DerivesFrom, err = attribute.ParseDerivesFrom(a)
		case attribute.IsCircular:
			var c bool
			if c, err = attribute.ParseIsCircular(a); err == nil {
				f.Circular = &c
			}
		case attribute.LocusV3, attribute.Locus:
			f.Locus, err = attribute.ParseLocus(a)
		}
		if err != nil {
			skip(err)
		}
	}
}

/* ------------------------------ transcripts ----------------------------- */

func components(typ string) (exon, intron, cds bool) {
	return strings.Contains(typ, "exon"), strings.Contains(typ, "intron"), strings.Contains(typ, "CDS")
}

func (s *Session) makeTranscript(ps *parserSet, l *line, st *style.Style) error {
	if l.has(attribute.VulgarExon) {
		s.log.Warn("vulgar_exonerate transcripts are not supported", "line", l.no)
		return nil
	}
	exon, intron, cds := components(l.term.Name)
	component := exon || intron || cds
	id := l.id()
	parents := l.parents()

	switch {
	case id != "" && !component:
		return s.newTranscript(ps, l, st, id, false)
	case len(parents) > 0 && component:
		return s.addParts(ps, l, parents)
	case id == "" && !component:
		return s.newTranscript(ps, l, st, "", true)
	}
	s.log.Debug("transcript part without Parent ignored", "line", l.no, "type", l.term.Name)
	return nil
}

// newTranscript creates (or finds) the transcript for l. A line with no ID
// becomes a transcript with a single exon covering it.
func (s *Session) newTranscript(ps *parserSet, l *line, st *style.Style, id string, single bool) error {
	x1, x2, keep := s.clip(l.start, l.end, clipGeneral)
	if !keep {
		s.exclude(l)
		if waiting := ps.pending[id]; id != "" && len(waiting) > 0 {
			s.stats.Excluded += len(waiting)
			delete(ps.pending, id)
		}
		return nil
	}
	name := l.name()
	if name == "" {
		name = id
	}
	if name == "" {
		name = noNameGiven
	}
	uid := feature.CreateName(style.Transcript, name, l.strand, x1, x2, 0, 0)
	f, present := ps.set.Get(uid)
	if !present {
		f = s.newFeature(l, st, uid, name, x1, x2)
		f.Transcript = &feature.Transcript{Parents: l.parents()}
		ps.set.Add(f)
	}
	if single {
		f.Transcript.AddExon(feature.Span{X1: x1, X2: x2})
	}
	if id == "" {
		return nil
	}
	ps.ids[id] = uid
	waiting := ps.pending[id]
	delete(ps.pending, id)
	for _, part := range waiting {
		if err := s.attachPart(f, part); err != nil {
			s.record(err)
		}
	}
	return nil
}

func (s *Session) addParts(ps *parserSet, l *line, parents []string) error {
	var firstErr error
	for _, p := range parents {
		uid, ok := ps.ids[p]
		if !ok {
			if s.opts.Parents == ParentLenient {
				ps.pending[p] = append(ps.pending[p], l)
				continue
			}
			s.stats.Orphans++
			s.log.Debug("parent not seen; part dropped", "line", l.no, "parent", p)
			continue
		}
		f, ok := ps.set.Get(uid)
		if !ok {
			continue
		}
		if err := s.attachPart(f, l); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// attachPart adds an exon, intron or CDS line to its transcript. Parts
// must lie within the transcript.
func (s *Session) attachPart(f *feature.Feature, l *line) error {
	x1, x2, keep := s.clip(l.start, l.end, clipGeneral)
	if !keep {
		s.exclude(l)
		return nil
	}
	if x1 < f.X1 || x2 > f.X2 {
		return lineErr(l.no, ErrBody, "%s %d-%d lies outside transcript %q (%d-%d)", l.term.Name, x1, x2, f.Name, f.X1, f.X2)
	}
	span := feature.Span{X1: x1, X2: x2}
	exon, intron, cds := components(l.term.Name)
	switch {
	case exon:
		f.Transcript.AddExon(span)
	case intron:
		f.Transcript.AddIntron(span)
	case cds:
		snf := 0
		if a, ok := l.attr(attribute.StartNotFound); ok {
			if v, err := attribute.ParseStartNotFound(a); err == nil {
				snf = v
			}
		}
		enf := l.has(attribute.EndNotFound)
		f.Transcript.AddCDS(span, f.Strand, l.phase, snf, enf)
	}
	return nil
}

// makeLocus adds a locus feature for a transcript carrying a locus tag.
func (s *Session) makeLocus(l *line) {
	if l.term.Mode != style.Transcript {
		return
	}
	if e, i, c := components(l.term.Name); e || i || c {
		return
	}
	a, ok := l.attr(attribute.LocusV3)
	if !ok {
		a, ok = l.attr(attribute.Locus)
	}
	if !ok || l.id() == "" {
		return
	}
	locus, err := attribute.ParseLocus(a)
	if err != nil {
		return
	}
	x1, x2, keep := s.clip(l.start, l.end, clipGeneral)
	if !keep {
		return
	}
	st, _ := s.opts.Styles.Resolve(s.opts.LocusSet, style.Text)
	if st == nil {
		st = style.New(style.Text.String(), style.Text)
	}
	set := s.store.Set(s.opts.LocusSet)
	if set.StyleID == "" {
		set.StyleID = st.ID
	}
	uid := feature.CreateName(style.Text, locus, l.strand, x1, x2, 0, 0)
	if set.Has(uid) {
		return
	}
	term, ok := s.terms.ByName("remark")
	if !ok {
		term.Name = "remark"
	}
	set.Add(&feature.Feature{
		UniqueID:  uid,
		Name:      locus,
		Source:    "Locus",
		SOType:    term.Name,
		Accession: term.Accession,
		Mode:      style.Text,
		StyleID:   st.ID,
		SeqID:     l.seqID,
		X1:        x1,
		X2:        x2,
		Strand:    l.strand,
		Phase:     feature.PhaseNone,
		Locus:     locus,
	})
}

/* ------------------------------ alignments ------------------------------ */

// Alignment strings in the order they are tried.
var alignAttrs = []string{
	attribute.Gap,
	attribute.CigarEnsembl,
	attribute.CigarExonerate,
	attribute.CigarBAM,
	attribute.VulgarExon,
}

func (s *Session) makeAlignment(ps *parserSet, l *line, st *style.Style, explicit bool) error {
	x1, x2, keep := s.clip(l.start, l.end, clipComplete)
	if !keep {
		s.exclude(l)
		return nil
	}
	homol := l.term.Homol
	if explicit && st.Homol != style.HomolNone {
		homol = st.Homol
	}
	if a, ok := l.attr(attribute.Class); ok {
		if h, err := attribute.ParseClass(a); err == nil && h != style.HomolNone {
			homol = h
		}
	}
	if homol == style.HomolNone {
		return lineErr(l.no, ErrBody, "alignment %q has no homology type", l.term.Name)
	}
	ta, ok := l.attr(attribute.Target)
	if !ok {
		return lineErr(l.no, ErrAttribute, "alignment without Target")
	}
	tv, err := attribute.ParseTarget(ta)
	if err != nil {
		return lineErr(l.no, ErrAttribute, "%v", err)
	}
	uid := feature.CreateName(style.Alignment, tv.ID, l.strand, x1, x2, tv.Start, tv.End)
	if ps.set.Has(uid) {
		s.log.Debug("duplicate alignment dropped", "line", l.no, "id", uid)
		return nil
	}
	f := s.newFeature(l, st, uid, tv.ID, x1, x2)
	h := &feature.Homol{Target: tv.ID, Y1: tv.Start, Y2: tv.End, TargetStrand: tv.Strand, Type: homol}
	if a, ok := l.attr(attribute.PercentID); ok {
		if v, err := attribute.ParsePercentID(a); err == nil {
			h.PercentID, h.HasPercentID = v, true
		}
	}
	for _, n := range []string{attribute.LengthV3, attribute.Length} {
		if a, ok := l.attr(n); ok {
			if v, err := attribute.ParseLength(a); err == nil {
				h.Length = v
			}
			break
		}
	}
	if a, ok := l.attr(attribute.Sequence); ok {
		h.Sequence, _ = attribute.ParseSequence(a)
	}
	if blocks := s.alignBlocks(l, tv, homol); len(blocks) > 1 {
		h.Blocks = blocks
	}
	f.Homol = h
	ps.set.Add(f)
	return nil
}

// alignBlocks decodes the first alignment string present. Decode failures
// leave the alignment ungapped.
func (s *Session) alignBlocks(l *line, tv attribute.TargetValue, homol style.Homol) []feature.AlignBlock {
	matchStrand := tv.Strand
	if matchStrand == feature.StrandNone {
		matchStrand = feature.StrandForward
	}
	ext := attribute.Extent{
		RefStart: l.start, RefEnd: l.end, RefStrand: l.strand,
		MatchStart: tv.Start, MatchEnd: tv.End, MatchStrand: matchStrand,
		Homol: homol,
	}
	for _, n := range alignAttrs {
		a, ok := l.attr(n)
		if !ok {
			continue
		}
		blocks, err := attribute.ParseAlignment(a, ext)
		if err != nil {
			s.log.Debug("alignment string ignored", "line", l.no, "attribute", n, "err", err)
			return nil
		}
		return blocks
	}
	if a, ok := l.attr(attribute.Gaps); ok {
		blocks, err := attribute.ParseGaps(a, l.strand, matchStrand)
		if err != nil {
			s.log.Debug("Gaps attribute ignored", "line", l.no, "err", err)
			return nil
		}
		return blocks
	}
	return nil
}

/* ------------------------------- defaults ------------------------------- */

func (s *Session) makeDefault(ps *parserSet, l *line, st *style.Style) error {
	x1, x2, keep := s.clip(l.start, l.end, clipGeneral)
	if !keep {
		s.exclude(l)
		return nil
	}
	name := s.defaultName(l)
	uid := feature.CreateName(l.term.Mode, name, l.strand, x1, x2, 0, 0)
	if ps.set.Has(uid) {
		s.log.Debug("duplicate feature dropped", "line", l.no, "id", uid)
		return nil
	}
	f := s.newFeature(l, st, uid, name, x1, x2)
	switch l.term.Name {
	case "five_prime_cis_splice_site":
		f.Splice = feature.SpliceFivePrime
	case "three_prime_cis_splice_site":
		f.Splice = feature.SpliceThreePrime
	}
	ps.set.Add(f)
	return nil
}

// defaultName picks a name for a feature that is neither a transcript nor
// an alignment.
func (s *Session) defaultName(l *line) string {
	if a, ok := l.attr(attribute.Name); ok && s.Version() == 2 {
		if v, err := attribute.ParseNameV2(a); err == nil {
			return v.Name
		}
	}
	if n := l.name(); n != "" {
		return n
	}
	mode := l.term.Mode
	switch {
	case mode == style.AssemblyPath:
		if a, ok := l.attr(attribute.AssemblySource); ok {
			if n, _, err := attribute.ParseAssemblySource(a); err == nil {
				return n
			}
		}
	case (mode == style.Basic || mode == style.Glyph) &&
		(strings.HasPrefix(l.source, "GF_") || strings.EqualFold(l.source, "hexexon")):
		return l.source
	}
	if s.Version() == 2 {
		for _, a := range l.attrs {
			if _, n, err := attribute.ParseAnyTwoStrings(a); err == nil {
				return n
			}
		}
	}
	if id := l.id(); id != "" {
		return id
	}
	return l.seqID
}
