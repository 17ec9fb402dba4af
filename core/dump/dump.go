// core/dump/dump.go
package dump

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gffkit/core/attribute"
	"gffkit/core/fasta"
	"gffkit/core/feature"
	"gffkit/core/header"
	"gffkit/core/so"
	"gffkit/core/style"
)

var (
	// ErrMandatory means a feature lacks one of the eight mandatory fields.
	ErrMandatory = errors.New("mandatory field missing")
	// ErrPhase means the phase disagrees with the feature type.
	ErrPhase = errors.New("phase does not match feature type")
)

// Context carries what the dumper needs beyond the features themselves.
type Context struct {
	Version    int
	Styles     *style.Set
	Terms      *so.Collection // maps type names to accessions; names are written when nil
	TypeNames  bool           // write SO names instead of accessions
	AppName    string
	AppVersion string
	Date       time.Time
	Region     header.Region
	Sequences  []fasta.Record
	FastaWidth int
}

// NewContext returns a GFF3 dump context.
func NewContext(version int, styles *style.Set) *Context {
	if version == 0 {
		version = 3
	}
	if styles == nil {
		styles = style.Defaults()
	}
	c := &Context{Version: version, Styles: styles, AppName: "gffkit", AppVersion: "dev", Date: time.Now()}
	if r, err := so.Builtin(); err == nil {
		c.Terms, _ = r.Collection(so.SOFA)
	}
	return c
}

// WriteHeader writes the directive block.
func (c *Context) WriteHeader(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "##gff-version %d\n", c.Version)
	if c.Region.Name != "" && c.Region.HasRange() {
		fmt.Fprintf(&b, "##sequence-region %s %d %d\n", c.Region.Name, c.Region.Start, c.Region.End)
	}
	if c.AppName != "" {
		fmt.Fprintf(&b, "##source-version %s %s\n", c.AppName, c.AppVersion)
	}
	if !c.Date.IsZero() {
		fmt.Fprintf(&b, "##date %s\n", c.Date.Format(time.DateOnly))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFeature writes the lines for f. Nothing is written when f fails
// the mandatory-field checks.
func (c *Context) WriteFeature(w io.Writer, f *feature.Feature) error {
	text, err := c.FormatFeature(f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// WriteFasta writes the ##FASTA section, if the context has sequences.
func (c *Context) WriteFasta(w io.Writer) error {
	if len(c.Sequences) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "##FASTA\n"); err != nil {
		return err
	}
	for _, rec := range c.Sequences {
		if err := fasta.Write(w, rec, c.FastaWidth); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes a complete file. Features that cannot be written are
// skipped and reported together at the end.
func (c *Context) Dump(w io.Writer, features []*feature.Feature) error {
	if err := c.WriteHeader(w); err != nil {
		return err
	}
	var errs []error
	for _, f := range features {
		text, err := c.FormatFeature(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	if err := c.WriteFasta(w); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// FormatFeature returns the text for f: one line, or for transcripts the
// transcript line followed by its exon, intron and CDS lines.
func (c *Context) FormatFeature(f *feature.Feature) (string, error) {
	var b strings.Builder
	if err := c.mandatory(&b, f, f.SOType, f.Accession, f.X1, f.X2, f.Phase, true); err != nil {
		return "", err
	}
	var attrs []string
	switch c.mode(f) {
	case style.Transcript:
		attrs = c.transcriptAttrs(f)
	case style.Alignment:
		var err error
		if attrs, err = c.alignmentAttrs(f); err != nil {
			return "", err
		}
	case style.Text:
		attrs = textAttrs(f)
	case style.Graph:
		attrs = graphAttrs(f)
	default:
		attrs = basicAttrs(f)
	}
	attrs = append(attrs, commonAttrs(f)...)
	writeAttrs(&b, attrs)
	if f.Transcript != nil && c.mode(f) == style.Transcript {
		if err := c.transcriptParts(&b, f); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (c *Context) mode(f *feature.Feature) style.Mode {
	if c.Styles != nil {
		if st, ok := c.Styles.Get(f.StyleID); ok && st.Mode != style.Invalid {
			return st.Mode
		}
	}
	return f.Mode
}

// mandatory writes the eight fixed columns followed by a tab.
func (c *Context) mandatory(b *strings.Builder, f *feature.Feature, typ string, acc uint32, x1, x2 int, phase feature.Phase, withScore bool) error {
	switch {
	case f.SeqID == "" && c.Region.Name == "":
		return fmt.Errorf("%w: %q has no sequence name", ErrMandatory, f.UniqueID)
	case f.Source == "":
		return fmt.Errorf("%w: %q has no source", ErrMandatory, f.UniqueID)
	case typ == "" && acc == 0:
		return fmt.Errorf("%w: %q has no type", ErrMandatory, f.UniqueID)
	case x1 < 1 || x2 < x1:
		return fmt.Errorf("%w: %q has bad coordinates %d-%d", ErrMandatory, f.UniqueID, x1, x2)
	}
	if cds := typ == "CDS"; cds != phase.Valid() {
		return fmt.Errorf("%w: %q is %s with phase %c", ErrPhase, f.UniqueID, typ, phase.Char())
	}
	seq := f.SeqID
	if seq == "" {
		seq = c.Region.Name
	}
	score := "."
	if withScore && f.HasScore {
		score = strconv.FormatFloat(f.Score, 'g', -1, 64)
	}
	fmt.Fprintf(b, "%s\t%s\t%s\t%d\t%d\t%s\t%c\t%c\t",
		attribute.Escape(seq), attribute.Escape(f.Source), c.typeField(typ, acc), x1, x2, score, f.Strand.Char(), phase.Char())
	return nil
}

func (c *Context) typeField(name string, acc uint32) string {
	if c.TypeNames || c.Terms == nil {
		if name != "" {
			return attribute.Escape(name)
		}
		return so.FormatAccession(acc)
	}
	if acc == 0 {
		if t, ok := c.Terms.ByName(name); ok {
			acc = t.Accession
		}
	}
	if acc == 0 {
		return attribute.Escape(name)
	}
	return so.FormatAccession(acc)
}

/* ------------------------------ attributes ------------------------------ */

func kv(name, value string) string { return name + "=" + attribute.Escape(value) }

func kvList(name string, values []string) string {
	esc := make([]string, len(values))
	for i, v := range values {
		esc[i] = attribute.Escape(v)
	}
	return name + "=" + strings.Join(esc, ",")
}

func writeAttrs(b *strings.Builder, attrs []string) {
	if len(attrs) == 0 {
		b.WriteString(".\n")
		return
	}
	b.WriteString(strings.Join(attrs, ";"))
	b.WriteByte('\n')
}

func appendIf(attrs []string, name, value string) []string {
	if value == "" {
		return attrs
	}
	return append(attrs, kv(name, value))
}

func basicAttrs(f *feature.Feature) []string {
	a := appendIf(nil, attribute.Name, f.Name)
	a = appendIf(a, attribute.ID, f.ID)
	a = appendIf(a, attribute.URL, f.URL)
	a = appendIf(a, attribute.Variation, f.Variation)
	return appendIf(a, attribute.Note, f.Description)
}

func textAttrs(f *feature.Feature) []string {
	a := appendIf(nil, attribute.Name, f.Name)
	a = appendIf(a, attribute.Note, f.Description)
	return appendIf(a, attribute.URL, f.URL)
}

func graphAttrs(f *feature.Feature) []string {
	a := appendIf(nil, attribute.Name, f.Name)
	a = appendIf(a, attribute.URL, f.URL)
	return appendIf(a, attribute.Note, f.Description)
}

// transcriptID is the ID the part lines point back to.
func transcriptID(f *feature.Feature) string {
	if f.ID != "" {
		return f.ID
	}
	return f.UniqueID
}

func (c *Context) transcriptAttrs(f *feature.Feature) []string {
	a := appendIf(nil, attribute.Name, f.Name)
	a = appendIf(a, attribute.ID, transcriptID(f))
	if t := f.Transcript; t != nil && len(t.Parents) > 0 {
		a = append(a, kvList(attribute.Parent, t.Parents))
	}
	a = appendIf(a, attribute.Note, f.Description)
	a = appendIf(a, attribute.LocusV3, f.Locus)
	return appendIf(a, attribute.URL, f.URL)
}

func (c *Context) alignmentAttrs(f *feature.Feature) ([]string, error) {
	h := f.Homol
	if h == nil || h.Target == "" {
		return nil, fmt.Errorf("%w: alignment %q has no target", ErrMandatory, f.UniqueID)
	}
	target := fmt.Sprintf("%s=%s %d %d", attribute.Target, attribute.Escape(h.Target), h.Y1, h.Y2)
	if h.TargetStrand != feature.StrandNone {
		target += " " + h.TargetStrand.String()
	}
	a := appendIf(nil, attribute.Name, f.Name)
	a = append(a, target)
	if h.HasPercentID {
		a = append(a, attribute.PercentID+"="+strconv.FormatFloat(h.PercentID, 'g', -1, 64))
	}
	if len(h.Blocks) > 1 {
		gap, err := FormatGap(h.Blocks, h.Type)
		if err != nil {
			return nil, fmt.Errorf("alignment %q: %w", f.UniqueID, err)
		}
		a = append(a, attribute.Gap+"="+gap)
	}
	if h.Length > 0 {
		a = append(a, attribute.LengthV3+"="+strconv.Itoa(h.Length))
	}
	return appendIf(a, attribute.Sequence, h.Sequence), nil
}

// commonAttrs holds the cross references every mode may carry.
func commonAttrs(f *feature.Feature) []string {
	var a []string
	if len(f.Alias) > 0 {
		a = append(a, kvList(attribute.Alias, f.Alias))
	}
	a = appendIf(a, attribute.DerivesFrom, f.DerivesFrom)
	if x := xrefs(f.Dbxref); len(x) > 0 {
		a = append(a, kvList(attribute.Dbxref, x))
	}
	if x := xrefs(f.Ontology); len(x) > 0 {
		a = append(a, kvList(attribute.OntologyTerm, x))
	}
	if f.Circular != nil {
		a = append(a, attribute.IsCircular+"="+strconv.FormatBool(*f.Circular))
	}
	return a
}

func xrefs(xs []feature.Xref) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, x.DB+":"+x.ID)
	}
	return out
}

/* ---------------------------- transcript parts --------------------------- */

func (c *Context) transcriptParts(b *strings.Builder, f *feature.Feature) error {
	parent := kv(attribute.Parent, transcriptID(f))
	t := f.Transcript
	part := func(typ string, s feature.Span, phase feature.Phase) error {
		if err := c.mandatory(b, f, typ, 0, s.X1, s.X2, phase, false); err != nil {
			return err
		}
		b.WriteString(parent)
		b.WriteByte('\n')
		return nil
	}
	phases := cdsPhases(t, f.Strand)
	for i, e := range t.Exons {
		if err := part("exon", e, feature.PhaseNone); err != nil {
			return err
		}
		if seg, ok := cdsSegment(t.CDS, e); ok {
			if err := part("CDS", seg, phases[i]); err != nil {
				return err
			}
		}
	}
	for _, in := range t.Introns {
		if err := part("intron", in, feature.PhaseNone); err != nil {
			return err
		}
	}
	if len(t.Exons) == 0 && t.CDS != nil {
		return part("CDS", t.CDS.Span, t.CDS.Phase)
	}
	return nil
}

// cdsSegment is the part of exon e inside the coding window.
func cdsSegment(cds *feature.CDS, e feature.Span) (feature.Span, bool) {
	if cds == nil || e.X2 < cds.X1 || e.X1 > cds.X2 {
		return feature.Span{}, false
	}
	return feature.Span{X1: max(e.X1, cds.X1), X2: min(e.X2, cds.X2)}, true
}

// cdsPhases returns the phase of the coding segment of each exon, walking
// from the 5' end. Exons outside the window get PhaseNone.
func cdsPhases(t *feature.Transcript, strand feature.Strand) []feature.Phase {
	out := make([]feature.Phase, len(t.Exons))
	for i := range out {
		out[i] = feature.PhaseNone
	}
	if t.CDS == nil {
		return out
	}
	order := make([]int, len(t.Exons))
	for i := range order {
		if strand == feature.StrandReverse {
			order[i] = len(order) - 1 - i
		} else {
			order[i] = i
		}
	}
	p0 := int(t.CDS.Phase)
	if p0 < 0 {
		p0 = 0
	}
	coded := 0
	for _, i := range order {
		seg, ok := cdsSegment(t.CDS, t.Exons[i])
		if !ok {
			continue
		}
		out[i] = feature.Phase(((p0-coded)%3 + 3) % 3)
		coded += seg.Len()
	}
	return out
}
