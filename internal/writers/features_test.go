package writers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"

	"gffkit/core/feature"
	"gffkit/core/style"
	"gffkit/pkg/api"
)

func sample() []*feature.Feature {
	return []*feature.Feature{
		{
			UniqueID: "gene1_'+'_10.90", ID: "gene1", Name: "gene1", Source: "ensembl",
			SOType: "gene", Accession: 704, Mode: style.Basic, StyleID: "ensembl",
			SeqID: "chr1", X1: 10, X2: 90, Strand: feature.StrandForward, Phase: feature.PhaseNone,
			Dbxref: []feature.Xref{{DB: "GeneID", ID: "42"}},
		},
		{
			UniqueID: "q1_'-'_100.150_1.51", Name: "q1", Source: "blastn",
			SOType: "match", Mode: style.Alignment, StyleID: "blastn",
			SeqID: "chr1", X1: 100, X2: 150, Score: 12.5, HasScore: true,
			Strand: feature.StrandReverse, Phase: feature.PhaseNone,
			Homol: &feature.Homol{Target: "q1", Y1: 1, Y2: 51, Type: style.HomolDNA},
		},
	}
}

func run(t *testing.T, format string, meta Meta) string {
	t.Helper()
	var buf bytes.Buffer
	in, done := StartFeatureWriter(&buf, format, meta, 1)
	for _, f := range sample() {
		in <- f
	}
	close(in)
	require.NoError(t, <-done)
	return buf.String()
}

func TestUnknownFormatError(t *testing.T) {
	var b bytes.Buffer
	in, done := StartFeatureWriter(&b, "nope-format", Meta{}, 1)
	in <- sample()[0]
	close(in)
	err := <-done
	require.ErrorContains(t, err, "unknown output format")
}

func TestFormatsRegistered(t *testing.T) {
	require.Equal(t, []string{FormatGFF3, FormatJSON, FormatJSONL, FormatSummary, FormatYAML}, Formats())
}

func TestJSONWriter(t *testing.T) {
	var got []api.FeatureV1
	require.NoError(t, json.Unmarshal([]byte(run(t, FormatJSON, Meta{})), &got))
	require.Len(t, got, 2)
	require.Equal(t, "SO:0000704", got[0].Accession)
	require.Equal(t, []string{"GeneID:42"}, got[0].Dbxref)
	require.Nil(t, got[0].Score)
	require.Equal(t, "-", got[1].Strand)
	require.NotNil(t, got[1].Score)
	require.Equal(t, 12.5, *got[1].Score)
	require.Equal(t, "dna", got[1].Alignment.Homol)
}

func TestJSONLWriter(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(run(t, FormatJSONL, Meta{})), "\n")
	require.Len(t, lines, 2)
	var f api.FeatureV1
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &f))
	require.Equal(t, "q1", f.Name)
	require.Equal(t, 51, f.Alignment.TargetEnd)
}

func TestYAMLWriter(t *testing.T) {
	var got []api.FeatureV1
	require.NoError(t, yaml.Unmarshal([]byte(run(t, FormatYAML, Meta{})), &got))
	require.Len(t, got, 2)
	require.Equal(t, "gene1", got[0].AttrID)
	require.Equal(t, "chr1", got[1].SequenceID)
}

func TestGFF3Writer(t *testing.T) {
	out := run(t, FormatGFF3, Meta{AppVersion: "1.2.3", TypeNames: true})
	require.True(t, strings.HasPrefix(out, "##gff-version 3\n"))
	require.Contains(t, out, "##source-version gffkit 1.2.3\n")
	require.Contains(t, out, "chr1\tensembl\tgene\t10\t90\t.\t+\t.\t")
	require.Contains(t, out, "Target=q1 1 51")
}

func TestSummaryWriter(t *testing.T) {
	out := run(t, FormatSummary, Meta{Source: "in.gff"})
	require.Contains(t, out, "in.gff: 2 features")
	require.Contains(t, out, "featuresets")
	require.Contains(t, out, "blastn")
	require.Contains(t, out, "alignment")
}
