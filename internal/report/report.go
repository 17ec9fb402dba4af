// internal/report/report.go
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"gffkit/core/gff3"
)

// Report is the outcome of validating one input.
type Report struct {
	Source string
	Stats  gff3.Stats
	Errors []error // as kept by the session; Stats.Errors may be larger
	Finish error   // end-of-input problems from Session.Finish
	Final  error   // I/O failure or cancellation
}

// OK reports whether the input validated without errors.
func (r Report) OK() bool {
	return r.Stats.Errors == 0 && len(r.Errors) == 0 && r.Finish == nil && r.Final == nil
}

// Options tunes the printed report.
type Options struct {
	MaxErrors int  // errors listed before eliding; 20 when zero, all when negative
	NoColor   bool // force plain output
}

var kinds = []struct {
	name string
	err  error
}{
	{"header", gff3.ErrHeader},
	{"body", gff3.ErrBody},
	{"sequence", gff3.ErrSequence},
	{"fasta", gff3.ErrFasta},
	{"attribute", gff3.ErrAttribute},
	{"terminated", gff3.ErrTerminated},
}

// KindOf names the error class of err ("other" when none matches).
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}

type palette struct {
	bad, good, warn, dim, bold *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		bad:  color.New(color.FgRed, color.Bold),
		good: color.New(color.FgGreen, color.Bold),
		warn: color.New(color.FgYellow),
		dim:  color.New(color.FgHiBlack),
		bold: color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.bad, p.good, p.warn, p.dim, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

// Write prints r.
func Write(w io.Writer, r Report, opt Options) error {
	limit := opt.MaxErrors
	if limit == 0 {
		limit = 20
	}
	p := newPalette(opt.NoColor)
	ew := &errWriter{w: w}

	src := r.Source
	if src == "" {
		src = "-"
	}
	if r.OK() {
		ew.print(p.good, "✓ %s: valid", src)
	} else {
		ew.print(p.bad, "✗ %s: invalid", src)
	}
	ew.plain("\n")

	st := r.Stats
	ew.print(p.bold, "  lines")
	ew.plain(" %d (header %d, body %d, sequence %d, fasta %d)\n",
		st.Lines, st.HeaderLines, st.BodyLines, st.SequenceLines, st.FastaLines)
	ew.print(p.bold, "  features")
	ew.plain(" %d\n", st.Features)
	if st.Errors > 0 {
		ew.print(p.bad, "  errors")
		ew.plain(" %d\n", st.Errors)
	}
	for _, c := range []struct {
		label string
		n     int
	}{
		{"sequence mismatch", st.SequenceMismatch},
		{"excluded", st.Excluded},
		{"unknown SO", st.UnknownSO},
		{"orphans", st.Orphans},
	} {
		if c.n > 0 {
			ew.print(p.warn, "  %s", c.label)
			ew.plain(" %d\n", c.n)
		}
	}

	if len(r.Errors) > 0 {
		byKind := map[string]int{}
		for _, err := range r.Errors {
			byKind[KindOf(err)]++
		}
		ew.print(p.bold, "  by kind")
		for _, k := range append(kinds, struct {
			name string
			err  error
		}{"other", nil}) {
			if n := byKind[k.name]; n > 0 {
				ew.plain(" %s=%d", k.name, n)
			}
		}
		ew.plain("\n")
	}
	for i, err := range r.Errors {
		if limit > 0 && i == limit {
			ew.print(p.dim, "  ... %d more", len(r.Errors)-limit)
			ew.plain("\n")
			break
		}
		ew.print(p.bad, "  %s", KindOf(err))
		ew.plain(" %v\n", err)
	}
	if r.Finish != nil {
		for _, line := range strings.Split(r.Finish.Error(), "\n") {
			ew.print(p.bad, "  finish")
			ew.plain(" %s\n", line)
		}
	}
	if r.Final != nil {
		ew.print(p.bad, "  fatal")
		ew.plain(" %v\n", r.Final)
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) print(c *color.Color, format string, a ...any) {
	if e.err == nil {
		_, e.err = c.Fprintf(e.w, format, a...)
	}
}

func (e *errWriter) plain(format string, a ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, a...)
	}
}
