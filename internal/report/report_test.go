package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gffkit/core/gff3"
)

func TestWriteValid(t *testing.T) {
	var buf bytes.Buffer
	r := Report{Source: "a.gff", Stats: gff3.Stats{Lines: 3, HeaderLines: 1, BodyLines: 2, Features: 2}}
	if err := Write(&buf, r, Options{NoColor: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"✓ a.gff: valid", "lines 3 (header 1, body 2", "features 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "orphans") {
		t.Fatalf("zero counters should be hidden:\n%s", out)
	}
}

func TestWriteErrorsElided(t *testing.T) {
	var errs []error
	for i := 1; i <= 5; i++ {
		errs = append(errs, &gff3.LineError{Line: i, Kind: gff3.ErrBody, Msg: "bad"})
	}
	errs = append(errs, &gff3.LineError{Line: 9, Kind: gff3.ErrAttribute, Msg: "bad attr"})
	r := Report{Stats: gff3.Stats{Errors: 6, Orphans: 1}, Errors: errs}

	var buf bytes.Buffer
	if err := Write(&buf, r, Options{NoColor: true, MaxErrors: 2}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"✗ -: invalid", "errors 6", "orphans 1", "by kind body=5 attribute=1", "... 4 more"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if r.OK() {
		t.Fatal("report with errors must not be OK")
	}
}

func TestWriteFinalError(t *testing.T) {
	var buf bytes.Buffer
	r := Report{Source: "x", Final: errors.New("read x: permission denied")}
	if err := Write(&buf, r, Options{NoColor: true}); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "✗ x: invalid") || !strings.Contains(out, "fatal read x") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]error{
		"header":   gff3.ErrHeader,
		"fasta":    fmt.Errorf("wrapped: %w", gff3.ErrFasta),
		"sequence": &gff3.LineError{Kind: gff3.ErrSequence},
		"other":    errors.New("x"),
	}
	for want, err := range cases {
		if got := KindOf(err); got != want {
			t.Errorf("KindOf(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestWriteFinishError(t *testing.T) {
	var buf bytes.Buffer
	fin := errors.Join(
		fmt.Errorf("%w: ##DNA block not terminated", gff3.ErrSequence),
		fmt.Errorf("%w: 2 transcript parts never found their parent", gff3.ErrBody),
	)
	r := Report{Source: "y", Finish: fin}
	if r.OK() {
		t.Fatal("finish error must fail validation")
	}
	if err := Write(&buf, r, Options{NoColor: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"finish sequence error: ##DNA block not terminated", "finish body error: 2 transcript parts"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
