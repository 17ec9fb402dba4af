package gff3

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want LineClass
	}{
		{"", LineEmpty},
		{"  \t", LineEmpty},
		{"###", LineClose},
		{"##DNA", LineDNA},
		{"##end-DNA", LineEndDNA},
		{"##FASTA", LineFasta},
		{"##gff-version 3", LineDirective},
		{"##acgt", LineDirective},
		{"# a comment", LineComment},
		{"chr1\tsrc\tgene\t1\t2\t.\t+\t.", LineBody},
	}
	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		from State
		cls  LineClass
		want State
	}{
		{StateNone, LineDirective, StateHeader},
		{StateNone, LineBody, StateBody},
		{StateNone, LineClose, StateError},
		{StateHeader, LineClose, StateClosed},
		{StateHeader, LineDNA, StateSequence},
		{StateBody, LineDirective, StateHeader},
		{StateBody, LineFasta, StateFasta},
		{StateBody, LineEndDNA, StateError},
		{StateSequence, LineDirective, StateSequence},
		{StateSequence, LineEndDNA, StateNone},
		{StateSequence, LineBody, StateError},
		{StateSequence, LineDNA, StateError},
		{StateFasta, LineBody, StateFasta},
		{StateFasta, LineDirective, StateError},
		{StateFasta, LineFasta, StateError},
		{StateClosed, LineBody, StateBody},
		{StateClosed, LineClose, StateClosed},
	}
	for _, tc := range cases {
		if got := Next(tc.from, tc.cls); got != tc.want {
			t.Errorf("Next(%s, %s) = %s want %s", tc.from, tc.cls, got, tc.want)
		}
	}
}

func TestEmptyAndCommentKeepState(t *testing.T) {
	for s := StateNone; s < numStates; s++ {
		for _, c := range []LineClass{LineEmpty, LineComment} {
			if got := Next(s, c); got != s {
				t.Errorf("Next(%s, %s) = %s", s, c, got)
			}
		}
	}
}

func TestErrorIsTerminal(t *testing.T) {
	for c := LineDNA; c < numLineClasses; c++ {
		if c == LineComment {
			continue
		}
		if got := Next(StateError, c); got != StateError {
			t.Errorf("Next(ERR, %s) = %s", c, got)
		}
	}
}
