// core/gff3/options.go
package gff3

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"gffkit/core/so"
	"gffkit/core/style"
)

// ClipMode decides what happens to features outside the session range.
type ClipMode int

const (
	ClipNone    ClipMode = iota
	ClipOverlap          // truncate features crossing a bound
	ClipAll              // drop features crossing a bound
)

func (c ClipMode) String() string {
	switch c {
	case ClipOverlap:
		return "overlap"
	case ClipAll:
		return "all"
	}
	return "none"
}

func ParseClipMode(s string) (ClipMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return ClipNone, nil
	case "overlap":
		return ClipOverlap, nil
	case "all":
		return ClipAll, nil
	}
	return ClipNone, fmt.Errorf("unknown clip mode %q", s)
}

// ParentPolicy decides what happens to a transcript part whose Parent has
// not been seen yet.
type ParentPolicy int

const (
	// ParentStrict drops the part.
	ParentStrict ParentPolicy = iota
	// ParentLenient holds the part until the parent arrives; parts still
	// waiting at Finish are reported as orphans.
	ParentLenient
)

func (p ParentPolicy) String() string {
	if p == ParentLenient {
		return "lenient"
	}
	return "strict"
}

func ParseParentPolicy(s string) (ParentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return ParentStrict, nil
	case "lenient":
		return ParentLenient, nil
	}
	return ParentStrict, fmt.Errorf("unknown parent policy %q", s)
}

// DefaultMaxLineLength bounds body lines.
const DefaultMaxLineLength = 65536

// Options configures a Session.
type Options struct {
	// Sequence is the name body lines must carry. When empty the first
	// ##sequence-region names it, or the first body line when
	// AdoptSeqID is set.
	Sequence string
	// Start and End bound the features wanted; both zero means unbounded
	// until a ##sequence-region supplies them.
	Start, End int

	Version int // attribute syntax before any ##gff-version; 3 when zero

	Clip        ClipMode
	Registry    *so.Registry // so.Builtin() when nil
	SOSet       so.SetName   // so.SOFA when empty
	SOLevel     so.ErrorLevel
	Styles      *style.Set // style.Defaults() when nil
	StopOnError bool
	Parents     ParentPolicy
	CheckSeqLen bool
	LocusSet    string // featureset receiving locus features; none when empty
	MaxLine     int    // DefaultMaxLineLength when zero
	AdoptSeqID  bool
	AnonSource  bool // accept "." as source, renamed after the feature mode
	Logger      *log.Logger
}

func (o Options) withDefaults() (Options, error) {
	if o.Version == 0 {
		o.Version = 3
	}
	if o.Version != 2 && o.Version != 3 {
		return o, fmt.Errorf("gff3: unsupported version %d", o.Version)
	}
	if o.Start < 0 || o.End < 0 || (o.End != 0 && o.End < o.Start) {
		return o, fmt.Errorf("gff3: bad range %d-%d", o.Start, o.End)
	}
	if o.Registry == nil {
		r, err := so.Builtin()
		if err != nil {
			return o, err
		}
		o.Registry = r
	}
	if o.SOSet == "" {
		o.SOSet = so.SOFA
	}
	if _, ok := o.Registry.Collection(o.SOSet); !ok {
		return o, fmt.Errorf("gff3: SO set %q not loaded", o.SOSet)
	}
	if o.Styles == nil {
		o.Styles = style.Defaults()
	}
	if o.MaxLine <= 0 {
		o.MaxLine = DefaultMaxLineLength
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o, nil
}
