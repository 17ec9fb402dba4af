package gff3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gffkit/core/feature"
	"gffkit/core/so"
	"gffkit/core/style"
)

// run feeds text line by line and returns the session with the per-line
// errors FeedLine reported.
func run(t *testing.T, opts Options, text string) (*Session, []error) {
	t.Helper()
	s, err := NewSession(opts)
	require.NoError(t, err)
	var errs []error
	for _, ln := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if err := s.FeedLine(ln); err != nil {
			errs = append(errs, err)
		}
	}
	return s, errs
}

func body(cols ...string) string { return strings.Join(cols, "\t") }

func names(s *Session) []string {
	var out []string
	for _, f := range s.Features().Features() {
		out = append(out, f.Name)
	}
	return out
}

func TestVersionMustBeFirstLine(t *testing.T) {
	t.Parallel()

	s, errs := run(t, Options{}, "##gff-version 3\n##sequence-region chr1 1 1000")
	require.Empty(t, errs)
	require.True(t, s.HeaderComplete())
	require.Equal(t, 3, s.Version())

	s, errs = run(t, Options{Sequence: "chr1", Start: 1, End: 1000}, "##gff-version 3")
	require.Empty(t, errs)
	require.False(t, s.HeaderComplete(), "needs a ##sequence-region line")

	s, errs = run(t, Options{}, "# leading comment\n##gff-version 3")
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrHeader)
	require.Equal(t, StateError, s.State())

	s, errs = run(t, Options{}, "##gff-version 3\n##gff-version 3")
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrHeader)
	require.Equal(t, StateError, s.State())

	// GFF2 may be declared later but only once.
	s, errs = run(t, Options{Sequence: "chr1"}, "##sequence-region chr1 1 10\n##gff-version 2")
	require.Empty(t, errs)
	require.Equal(t, 2, s.Version())
}

func TestTerminatedSession(t *testing.T) {
	t.Parallel()

	text := "##gff-version 3\n###\n##gff-version 3\n" + body("chr1", "src", "gene", "1", "10", ".", "+", ".", "ID=g")
	s, errs := run(t, Options{Sequence: "chr1"}, text)
	require.Len(t, errs, 2)
	require.ErrorIs(t, errs[1], ErrTerminated)
	require.Equal(t, 0, s.Features().Len())
	require.ErrorIs(t, s.Finish(), ErrTerminated)

	s, errs = run(t, Options{Sequence: "chr1", StopOnError: true}, text)
	require.Len(t, errs, 2)
	require.Len(t, s.Errors(), 1, "stop-on-error does not record ignored lines")
}

func TestSequenceMismatchIsSkipped(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		body("chr2", "src", "gene", "1", "10", ".", "+", ".", "ID=a"),
		body("CHR1", "src", "gene", "1", "10", ".", "+", ".", "ID=b"),
	}, "\n")
	s, errs := run(t, Options{Sequence: "chr1"}, text)
	require.Empty(t, errs)
	require.Equal(t, []string{"b"}, names(s))
	require.Equal(t, 1, s.Stats().SequenceMismatch)
}

func TestBodyLineChecks(t *testing.T) {
	t.Parallel()

	bad := map[string]string{
		"fields": body("chr1", "src", "gene", "1", "10", ".", "+"),
		"seqid":  body(".", "src", "gene", "1", "10", ".", "+", "."),
		"source": body("chr1", ".", "gene", "1", "10", ".", "+", "."),
		"type":   body("chr1", "src", ".", "1", "10", ".", "+", "."),
		"range":  body("chr1", "src", "gene", "10", "1", ".", "+", "."),
		"start":  body("chr1", "src", "gene", "x", "10", ".", "+", "."),
		"score":  body("chr1", "src", "gene", "1", "10", "hi", "+", "."),
		"strand": body("chr1", "src", "gene", "1", "10", ".", "x", "."),
		"phase":  body("chr1", "src", "gene", "1", "10", ".", "+", "3"),
	}
	for name, ln := range bad {
		t.Run(name, func(t *testing.T) {
			s, errs := run(t, Options{Sequence: "chr1"}, ln)
			require.Len(t, errs, 1)
			require.ErrorIs(t, errs[0], ErrBody)
			require.Equal(t, StateBody, s.State(), "body errors do not stop the parser")
		})
	}

	_, errs := run(t, Options{}, body("chr1", "src", "gene", "1", "10", ".", "+", "."))
	require.Len(t, errs, 1, "no sequence name")

	s, errs := run(t, Options{AdoptSeqID: true}, body("chr1", "src", "gene", "1", "10", ".", "+", "."))
	require.Empty(t, errs)
	require.Equal(t, "chr1", s.Region().Name)

	_, errs = run(t, Options{Sequence: "chr1", MaxLine: 20}, body("chr1", "src", "gene", "1", "10", ".", "+", ".", "ID=long_name"))
	require.Len(t, errs, 1, "line too long")
}

func TestPhaseRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		typ, phase string
		ok         bool
	}{
		{"CDS", "0", true},
		{"CDS", "2", true},
		{"CDS", ".", false},
		{"gene", ".", true},
		{"gene", "1", false},
	}
	for _, tc := range cases {
		_, errs := run(t, Options{Sequence: "chr1"}, body("chr1", "src", tc.typ, "1", "9", ".", "+", tc.phase))
		if tc.ok {
			require.Empty(t, errs, "%s phase %s", tc.typ, tc.phase)
		} else {
			require.Len(t, errs, 1, "%s phase %s", tc.typ, tc.phase)
			require.ErrorIs(t, errs[0], ErrBody)
		}
	}
}

func TestUnknownTermPolicy(t *testing.T) {
	t.Parallel()

	ln := body("chr1", "src", "frobnicate", "1", "10", ".", "+", ".", "ID=f1")

	s, errs := run(t, Options{Sequence: "chr1", SOLevel: so.LevelError}, ln)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrBody)
	require.Equal(t, 0, s.Features().Len())
	require.Equal(t, 1, s.Stats().UnknownSO)

	s, errs = run(t, Options{Sequence: "chr1"}, ln)
	require.Empty(t, errs)
	fs := s.Features().Features()
	require.Len(t, fs, 1)
	require.Equal(t, style.Basic, fs[0].Mode)
	require.Equal(t, "frobnicate", fs[0].SOType)
	require.Zero(t, fs[0].Accession)
}

func TestSOAccessionAsType(t *testing.T) {
	t.Parallel()

	s, errs := run(t, Options{Sequence: "chr1"}, body("chr1", "src", "SO:0000704", "1", "10", ".", "+", ".", "ID=g1"))
	require.Empty(t, errs)
	f := s.Features().Features()[0]
	require.Equal(t, "gene", f.SOType)
	require.EqualValues(t, 704, f.Accession)
}

func TestClipping(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		body("chr1", "src", "gene", "50", "90", ".", "+", ".", "ID=outside"),
		body("chr1", "src", "gene", "150", "160", ".", "+", ".", "ID=inside"),
		body("chr1", "src", "gene", "90", "150", ".", "+", ".", "ID=partial"),
	}, "\n")

	s, errs := run(t, Options{Sequence: "chr1", Start: 100, End: 200, Clip: ClipAll}, text)
	require.Empty(t, errs)
	require.Equal(t, []string{"inside"}, names(s))
	f := s.Features().Features()[0]
	require.Equal(t, [2]int{150, 160}, [2]int{f.X1, f.X2})
	require.Equal(t, 2, s.Stats().Excluded)

	s, errs = run(t, Options{Sequence: "chr1", Start: 100, End: 200, Clip: ClipOverlap}, text)
	require.Empty(t, errs)
	require.Equal(t, []string{"inside", "partial"}, names(s))
	f = s.Features().Features()[1]
	require.Equal(t, [2]int{100, 150}, [2]int{f.X1, f.X2})

	s, errs = run(t, Options{Sequence: "chr1", Start: 100, End: 200}, text)
	require.Empty(t, errs)
	require.Len(t, names(s), 3, "no clipping by default")
}

func TestExclusionFollowsParent(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		body("chr1", "src", "mRNA", "10", "90", ".", "+", ".", "ID=t1"),
		body("chr1", "src", "exon", "150", "160", ".", "+", ".", "Parent=t1"),
		body("chr1", "src", "gene", "150", "160", ".", "+", ".", "ID=g;Parent=t1"),
	}, "\n")
	s, errs := run(t, Options{Sequence: "chr1", Start: 100, End: 200, Clip: ClipAll}, text)
	require.Empty(t, errs)
	require.Equal(t, 0, s.Features().Len())
	require.Equal(t, 3, s.Stats().Excluded)
}

const transcriptHeader = "##gff-version 3\n##sequence-region chr1 1 1000\n"

var (
	exonLine       = body("chr1", "srcA", "exon", "10", "20", ".", "+", ".", "ID=e1;Parent=t1")
	transcriptLine = body("chr1", "srcA", "transcript", "1", "100", ".", "+", ".", "ID=t1")
)

func requireTranscript(t *testing.T, s *Session, exons []feature.Span) {
	t.Helper()
	fs := s.Features().Features()
	require.Len(t, fs, 1)
	f := fs[0]
	require.Equal(t, "t1", f.Name)
	require.Equal(t, style.Transcript, f.Mode)
	require.NotNil(t, f.Transcript)
	require.Equal(t, exons, f.Transcript.Exons)
}

func TestTranscriptParentFirst(t *testing.T) {
	t.Parallel()

	for _, policy := range []ParentPolicy{ParentStrict, ParentLenient} {
		s, errs := run(t, Options{Parents: policy}, transcriptHeader+transcriptLine+"\n"+exonLine)
		require.Empty(t, errs)
		require.NoError(t, s.Finish())
		requireTranscript(t, s, []feature.Span{{X1: 10, X2: 20}})
	}
}

func TestTranscriptChildFirst(t *testing.T) {
	t.Parallel()

	text := transcriptHeader + exonLine + "\n" + transcriptLine

	s, errs := run(t, Options{Parents: ParentStrict}, text)
	require.Empty(t, errs)
	require.NoError(t, s.Finish())
	requireTranscript(t, s, nil)
	require.Equal(t, 1, s.Stats().Orphans)

	s, errs = run(t, Options{Parents: ParentLenient}, text)
	require.Empty(t, errs)
	require.NoError(t, s.Finish())
	requireTranscript(t, s, []feature.Span{{X1: 10, X2: 20}})
	require.Zero(t, s.Stats().Orphans)
}

func TestLenientOrphansReported(t *testing.T) {
	t.Parallel()

	s, errs := run(t, Options{Parents: ParentLenient}, transcriptHeader+exonLine)
	require.Empty(t, errs)
	err := s.Finish()
	require.ErrorIs(t, err, ErrBody)
	require.Equal(t, 1, s.Stats().Orphans)
	require.EqualError(t, s.Finish(), err.Error(), "Finish is idempotent")
}

func TestCloseDropsLedger(t *testing.T) {
	t.Parallel()

	s, errs := run(t, Options{}, transcriptHeader+transcriptLine+"\n###\n"+exonLine)
	require.Empty(t, errs)
	requireTranscript(t, s, nil)
	require.Equal(t, 1, s.Stats().Orphans)
}

func TestTranscriptParts(t *testing.T) {
	t.Parallel()

	text := transcriptHeader + strings.Join([]string{
		body("chr1", "srcA", "mRNA", "100", "900", ".", "-", ".", "ID=m1;Name=Gene1"),
		body("chr1", "srcA", "exon", "100", "300", ".", "-", ".", "Parent=m1"),
		body("chr1", "srcA", "exon", "700", "900", ".", "-", ".", "Parent=m1"),
		body("chr1", "srcA", "intron", "301", "699", ".", "-", ".", "Parent=m1"),
		body("chr1", "srcA", "CDS", "800", "900", ".", "-", "0", "Parent=m1"),
		body("chr1", "srcA", "CDS", "200", "300", ".", "-", "2", "Parent=m1;start_not_found=2"),
		body("chr1", "srcA", "exon", "950", "990", ".", "-", ".", "Parent=m1"),
	}, "\n")
	s, errs := run(t, Options{}, text)
	require.Len(t, errs, 1, "exon outside the transcript")
	require.ErrorIs(t, errs[0], ErrBody)

	f := s.Features().Features()[0]
	require.Equal(t, "Gene1", f.Name)
	require.Equal(t, "gene1_'-'_100.900", f.UniqueID)
	tr := f.Transcript
	require.Equal(t, []feature.Span{{X1: 100, X2: 300}, {X1: 700, X2: 900}}, tr.Exons)
	require.Equal(t, []feature.Span{{X1: 301, X2: 699}}, tr.Introns)
	require.NotNil(t, tr.CDS)
	require.Equal(t, feature.Span{X1: 200, X2: 900}, tr.CDS.Span)
	require.Equal(t, feature.Phase0, tr.CDS.Phase)
}

func TestSingleExonTranscript(t *testing.T) {
	t.Parallel()

	s, errs := run(t, Options{Sequence: "chr1"}, body("chr1", "srcA", "mRNA", "5", "50", ".", "+", ".", "Name=lonely"))
	require.Empty(t, errs)
	f := s.Features().Features()[0]
	require.Equal(t, []feature.Span{{X1: 5, X2: 50}}, f.Transcript.Exons)
}

func TestLocusSet(t *testing.T) {
	t.Parallel()

	ln := body("chr1", "srcA", "mRNA", "5", "50", ".", "+", ".", "ID=t9;locus=LOC1")
	s, errs := run(t, Options{Sequence: "chr1", LocusSet: "loci"}, ln+"\n"+ln)
	require.Empty(t, errs)
	set, ok := s.Features().Lookup("loci")
	require.True(t, ok)
	require.Equal(t, 1, set.Len())
	loc := set.Features()[0]
	require.Equal(t, "LOC1", loc.Name)
	require.Equal(t, style.Text, loc.Mode)
	require.Equal(t, "Locus", loc.Source)
	require.Equal(t, 2, s.Features().Len())
}

func TestAlignment(t *testing.T) {
	t.Parallel()

	ln := body("chr1", "est", "match", "1000", "1125", "88.5", "+", ".",
		"Target=q1 1 25 +;Gap=M8 D3 M6 I2 M4 N100 M5;percentID=97.5")
	s, errs := run(t, Options{Sequence: "chr1"}, ln+"\n"+ln)
	require.Empty(t, errs)
	fs := s.Features().Features()
	require.Len(t, fs, 1, "duplicate alignment dropped")
	f := fs[0]
	require.Equal(t, "q1_'+'_1000.1125_1.25", f.UniqueID)
	require.Equal(t, style.Alignment, f.Mode)
	require.True(t, f.HasScore)
	require.InDelta(t, 88.5, f.Score, 1e-9)
	require.NotNil(t, f.Homol)
	require.Equal(t, style.HomolDNA, f.Homol.Type)
	require.Len(t, f.Homol.Blocks, 4)
	require.True(t, f.Homol.HasPercentID)

	_, errs = run(t, Options{Sequence: "chr1"}, body("chr1", "est", "match", "1", "10", ".", "+", ".", "Name=x"))
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrAttribute)

	s, errs = run(t, Options{Sequence: "chr1"}, body("chr1", "est", "match", "1", "10", ".", "+", ".", "Target=q2 1 10;Gap=M40"))
	require.Empty(t, errs, "bad gap string leaves the feature ungapped")
	require.Empty(t, s.Features().Features()[0].Homol.Blocks)
}

func TestExplicitStyleMismatch(t *testing.T) {
	t.Parallel()

	styles := style.Defaults()
	styles.Bind("genes", style.New("genes", style.Transcript))
	s, errs := run(t, Options{Sequence: "chr1", Styles: styles}, body("chr1", "genes", "gene", "1", "10", ".", "+", ".", "ID=g"))
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrBody)
	require.Equal(t, 0, s.Features().Len())
}

func TestDefaultNaming(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		body("chr1", "src", "gene", "1", "10", ".", "+", ".", "Name=named;ID=id1"),
		body("chr1", "src", "gene", "20", "30", ".", "+", ".", "ID=id2"),
		body("chr1", "GF_genes", "gene", "40", "50", ".", "+", "."),
		body("chr1", "src", "gene", "60", "70", ".", "+", "."),
		body("chr1", "src", "five_prime_cis_splice_site", "80", "81", ".", "+", ".", "ID=ss"),
	}, "\n")
	s, errs := run(t, Options{Sequence: "chr1"}, text)
	require.Empty(t, errs)
	require.Equal(t, []string{"named", "id2", "GF_genes", "chr1", "ss"}, names(s))
	require.Equal(t, feature.SpliceFivePrime, s.Features().Features()[4].Splice)
}

func TestDecorations(t *testing.T) {
	t.Parallel()

	ln := body("chr1", "src", "gene", "1", "10", ".", "+", ".",
		"ID=g;Note=a%3Bnote;Dbxref=EMBL:AA1,GO:0001;Alias=x,y;Is_circular=true;url=http://e.org;Is_circular=maybe")
	s, errs := run(t, Options{Sequence: "chr1"}, ln)
	require.Empty(t, errs)
	f := s.Features().Features()[0]
	require.Equal(t, "a;note", f.Description)
	require.Equal(t, []feature.Xref{{DB: "EMBL", ID: "AA1"}, {DB: "GO", ID: "0001"}}, f.Dbxref)
	require.Equal(t, []string{"x", "y"}, f.Alias)
	require.NotNil(t, f.Circular)
	require.True(t, *f.Circular)
	require.Equal(t, "http://e.org", f.URL)
}

func TestGFF2Attributes(t *testing.T) {
	t.Parallel()

	text := "##gff-version 2\n" + body("chr1", "src", "gene", "1", "10", ".", "+", ".", `Name "g2" ; Note "two words"`)
	s, errs := run(t, Options{Sequence: "chr1"}, text)
	require.Empty(t, errs)
	f := s.Features().Features()[0]
	require.Equal(t, "g2", f.Name)
	require.Equal(t, "two words", f.Description)
}

func TestSequenceBlocks(t *testing.T) {
	t.Parallel()

	text := "##gff-version 3\n##sequence-region chr1 1 8\n##DNA\n##acgt\n##ACGT\n##end-DNA\n##FASTA\n>extra desc\nGGG\nCC"
	s, errs := run(t, Options{CheckSeqLen: true}, text)
	require.Empty(t, errs)
	require.NoError(t, s.Finish())
	seqs := s.Sequences()
	require.Len(t, seqs, 2)
	require.Equal(t, "chr1", seqs[0].ID)
	require.Equal(t, "acgtACGT", string(seqs[0].Seq))
	require.Equal(t, "extra", seqs[1].ID)
	require.Equal(t, "GGGCC", string(seqs[1].Seq))

	_, errs = run(t, Options{CheckSeqLen: true}, "##gff-version 3\n##sequence-region chr1 1 9\n##DNA\n##acgt\n##end-DNA")
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrSequence)

	_, errs = run(t, Options{Sequence: "chr1"}, "##DNA\n##ac\n##end-DNA\n##DNA")
	require.Len(t, errs, 1, "second ##DNA block")

	s, _ = run(t, Options{Sequence: "chr1"}, "##DNA\n##ac")
	require.ErrorIs(t, s.Finish(), ErrSequence)
	require.Empty(t, s.Errors())
}
