package attribute

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gffkit/core/feature"
	"gffkit/core/style"
)

func TestAlignmentGrammars(t *testing.T) {
	want := []Op{{'M', 8}, {'D', 3}, {'M', 6}}

	ops, err := ParseGapOps("M8 D3 M6")
	require.NoError(t, err)
	require.Equal(t, want, ops)

	ops, err = ParseGapOps("M 8 D 3 M 6")
	require.NoError(t, err)
	require.Equal(t, want, ops)

	ops, err = ParseEnsemblOps("8MI6M")
	require.NoError(t, err)
	require.Equal(t, []Op{{'M', 8}, {'D', 1}, {'M', 6}}, ops)

	ops, err = ParseBAMOps("2S8M3D4=2X1P")
	require.NoError(t, err)
	require.Equal(t, []Op{{'M', 8}, {'D', 3}, {'M', 4}, {'M', 2}}, ops)

	bad := map[string]func(string) ([]Op, error){
		"M8 F3":  ParseGapOps,
		"M":      ParseGapOps,
		"8M3H":   ParseBAMOps,
		"M8":     ParseBAMOps,
		"8M3":    ParseEnsemblOps,
		"M8 D0": ParseGapOps,
	}
	for in, fn := range bad {
		_, err := fn(in)
		require.Error(t, err, in)
	}
	_, err = ParseVulgarOps("M 10 10")
	require.Error(t, err)
}

func TestBlocksForward(t *testing.T) {
	ops, err := ParseGapOps("M8 D3 M6 I2 M4 N100 M5")
	require.NoError(t, err)
	ext := Extent{
		RefStart: 1000, RefEnd: 1125, RefStrand: feature.StrandForward,
		MatchStart: 1, MatchEnd: 25, MatchStrand: feature.StrandForward,
		Homol: style.HomolDNA,
	}
	blocks, err := Blocks(ops, ext)
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	require.Equal(t, feature.AlignBlock{T1: 1000, T2: 1007, Q1: 1, Q2: 8,
		TStrand: feature.StrandForward, QStrand: feature.StrandForward,
		StartBoundary: feature.BoundaryEdge, EndBoundary: feature.BoundaryDeletion}, blocks[0])
	require.Equal(t, [4]int{1011, 1016, 9, 14}, [4]int{blocks[1].T1, blocks[1].T2, blocks[1].Q1, blocks[1].Q2})
	require.Equal(t, feature.BoundaryDeletion, blocks[1].StartBoundary)
	require.Equal(t, feature.BoundaryMatch, blocks[1].EndBoundary)
	require.Equal(t, [4]int{1017, 1020, 17, 20}, [4]int{blocks[2].T1, blocks[2].T2, blocks[2].Q1, blocks[2].Q2})
	require.Equal(t, feature.BoundaryIntron, blocks[2].EndBoundary)
	require.Equal(t, [4]int{1121, 1125, 21, 25}, [4]int{blocks[3].T1, blocks[3].T2, blocks[3].Q1, blocks[3].Q2})
	require.Equal(t, feature.BoundaryIntron, blocks[3].StartBoundary)
	require.Equal(t, feature.BoundaryEdge, blocks[3].EndBoundary)
}

func TestBlocksInsertAfterIntron(t *testing.T) {
	ext := Extent{
		RefStart: 1, RefEnd: 20, RefStrand: feature.StrandForward,
		MatchStart: 1, MatchEnd: 12, MatchStrand: feature.StrandForward,
		Homol: style.HomolDNA,
	}
	for _, gap := range []string{"M5 N10 I2 M5", "M5 I2 N10 M5"} {
		blocks, err := ParseAlignment(Attribute{Name: Gap, Value: gap}, ext)
		require.NoError(t, err, gap)
		require.Len(t, blocks, 2, gap)
		require.Equal(t, feature.BoundaryIntron, blocks[0].EndBoundary, gap)
		require.Equal(t, feature.BoundaryIntron, blocks[1].StartBoundary, gap)
	}

	blocks, err := ParseAlignment(Attribute{Name: Gap, Value: "M5 D10 I2 M5"}, ext)
	require.NoError(t, err)
	require.Equal(t, feature.BoundaryDeletion, blocks[0].EndBoundary)
}

func TestBlocksReverseAndPeptide(t *testing.T) {
	ext := Extent{
		RefStart: 100, RefEnd: 129, RefStrand: feature.StrandReverse,
		MatchStart: 1, MatchEnd: 10, MatchStrand: feature.StrandForward,
		Homol: style.HomolPeptide,
	}
	blocks, err := ParseAlignment(Attribute{Name: Gap, Value: "M4 D2 M4"}, ext)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.Equal(t, [4]int{118, 129, 1, 4}, [4]int{blocks[0].T1, blocks[0].T2, blocks[0].Q1, blocks[0].Q2})
	require.Equal(t, [4]int{100, 111, 5, 8}, [4]int{blocks[1].T1, blocks[1].T2, blocks[1].Q1, blocks[1].Q2})

	_, err = ParseAlignment(Attribute{Name: Gap, Value: "M40"}, ext)
	require.Error(t, err, "runs past the feature")

	_, err = ParseAlignment(Attribute{Name: Note, Value: "M4"}, ext)
	require.Error(t, err)
}

func TestParseGaps(t *testing.T) {
	a := Attribute{Name: Gaps, Value: "1 10 1 10,20 30 11 21"}
	blocks, err := ParseGaps(a, feature.StrandForward, feature.StrandReverse)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.Equal(t, feature.StrandReverse, blocks[1].QStrand)

	for _, v := range []string{"1 10 1 10,30 20 1 2", "0 1 1 1", "1 2 3", ""} {
		_, err := ParseGaps(Attribute{Name: Gaps, Value: v}, feature.StrandForward, feature.StrandForward)
		require.Error(t, err, v)
	}
}
