// core/gff3/session.go
package gff3

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"gffkit/core/attribute"
	"gffkit/core/fasta"
	"gffkit/core/feature"
	"gffkit/core/header"
	"gffkit/core/so"
	"gffkit/core/style"
)

// Stats counts what a Session has seen.
type Stats struct {
	Lines            int `json:"lines"`
	HeaderLines      int `json:"header_lines"`
	BodyLines        int `json:"body_lines"`
	SequenceLines    int `json:"sequence_lines"`
	FastaLines       int `json:"fasta_lines"`
	Features         int `json:"features"`
	SequenceMismatch int `json:"sequence_mismatch"`
	Excluded         int `json:"excluded"`
	UnknownSO        int `json:"unknown_so"`
	Orphans          int `json:"orphans"`
	Errors           int `json:"errors"`
}

// maxKeptErrors bounds the error list; Stats.Errors keeps counting.
const maxKeptErrors = 1000

// Session parses one GFF stream for one sequence. Feed it lines in order
// with FeedLine, then call Finish. A Session is not safe for concurrent use.
type Session struct {
	opts   Options
	log    *log.Logger
	terms  *so.Collection
	syntax attribute.Syntax

	state  State
	hdr    *header.Header
	region header.Region
	lineNo int

	store *feature.Store
	sets  map[string]*parserSet // lower-cased source -> assembly ledger
	// name-ids dropped by clipping; their children are dropped too
	excluded map[string]bool

	dnaSeen   bool
	dna       strings.Builder
	sequences []fasta.Record
	fastaSeen bool
	fasta     fasta.Builder

	stats    Stats
	errs     []error
	lastErr  error
	finished bool
}

// parserSet is the per-source ledger used to link transcript parts.
type parserSet struct {
	set     *feature.Set
	ids     map[string]string  // ID attribute -> feature unique id
	pending map[string][]*line // Parent ID -> parts waiting for it
}

// NewSession validates opts and returns a session in state NON.
func NewSession(opts Options) (*Session, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	terms, _ := o.Registry.Collection(o.SOSet)
	return &Session{
		opts:     o,
		log:      o.Logger,
		terms:    terms,
		syntax:   attribute.SyntaxFor(o.Version),
		state:    StateNone,
		hdr:      header.New(),
		region:   header.Region{Name: o.Sequence, Start: o.Start, End: o.End},
		store:    feature.NewStore(),
		sets:     map[string]*parserSet{},
		excluded: map[string]bool{},
	}, nil
}

// FeedLine consumes one line of input. It returns nil when the line was
// accepted or skipped, otherwise a *LineError. After a stop-on-error
// failure, or any header error, the session is in ERR and every further
// line fails with ErrTerminated.
func (s *Session) FeedLine(text string) error {
	s.lineNo++
	s.stats.Lines++
	text = strings.TrimRight(text, "\r\n")

	if s.state == StateError {
		err := lineErr(s.lineNo, ErrTerminated, "line ignored")
		if !s.opts.StopOnError {
			s.record(err)
		}
		return err
	}

	cls := Classify(text)
	if cls == LineEmpty || cls == LineComment || strings.HasPrefix(text, "// ERROR") {
		return nil
	}

	old := s.state
	next := Next(old, cls)
	s.state = next
	if next == StateError {
		return s.fail(lineErr(s.lineNo, kindFor(old), "%s line not allowed in state %s", cls, old))
	}
	if old != next {
		if err := s.onTransition(old, next, text); err != nil {
			return s.fail(err)
		}
	}

	var err error
	switch s.state {
	case StateHeader:
		s.stats.HeaderLines++
		if err = s.parseDirective(text); err != nil {
			return s.fail(err)
		}
		return nil
	case StateBody:
		s.stats.BodyLines++
		err = s.parseBody(text)
	case StateSequence:
		s.stats.SequenceLines++
		err = s.parseSequenceLine(text)
	case StateFasta:
		s.stats.FastaLines++
		err = s.parseFastaLine(text)
	}
	if err == nil {
		return nil
	}
	if s.opts.StopOnError {
		s.state = StateError
	}
	s.record(err)
	s.log.Debug("line rejected", "line", s.lineNo, "err", err)
	return err
}

func kindFor(st State) error {
	switch st {
	case StateSequence:
		return ErrSequence
	case StateFasta:
		return ErrFasta
	case StateBody:
		return ErrBody
	}
	return ErrHeader
}

// fail moves to ERR and records err.
func (s *Session) fail(err error) error {
	s.state = StateError
	s.record(err)
	s.log.Debug("parser stopped", "line", s.lineNo, "err", err)
	return err
}

func (s *Session) record(err error) {
	s.stats.Errors++
	s.lastErr = err
	if len(s.errs) < maxKeptErrors {
		s.errs = append(s.errs, err)
	}
}

func (s *Session) onTransition(old, next State, text string) error {
	switch {
	case next == StateSequence:
		return s.beginSequence(text)
	case old == StateSequence:
		return s.endSequence(text)
	case next == StateFasta:
		return s.beginFasta(text)
	case next == StateClosed:
		s.closeFeatures()
	}
	return nil
}

// closeFeatures handles "###": no later line may refer back to a feature
// seen so far, so the ID ledgers are dropped. Built features stay.
func (s *Session) closeFeatures() {
	for _, ps := range s.sets {
		s.stats.Orphans += countPending(ps)
		ps.ids = map[string]string{}
		ps.pending = map[string][]*line{}
	}
}

func countPending(ps *parserSet) int {
	n := 0
	for _, l := range ps.pending {
		n += len(l)
	}
	return n
}

func (s *Session) parseDirective(text string) error {
	d, err := header.Parse(text)
	if err != nil {
		return lineErr(s.lineNo, ErrHeader, "%v", err)
	}
	if err := s.hdr.Apply(d, s.lineNo, &s.region); err != nil {
		return lineErr(s.lineNo, ErrHeader, "%v", err)
	}
	if v, ok := d.(header.Version); ok {
		s.syntax = attribute.SyntaxFor(v.Number)
	}
	return nil
}

// Finish reports transcript parts still waiting for a parent and closes
// an unterminated ##DNA block. It may be called once; later calls return
// the same result.
func (s *Session) Finish() error {
	if s.finished {
		return s.finishErr()
	}
	s.finished = true
	orphans := 0
	for _, ps := range s.sets {
		orphans += countPending(ps)
		ps.pending = map[string][]*line{}
	}
	s.stats.Orphans += orphans
	if orphans > 0 {
		s.log.Warn("transcript parts without parent", "count", orphans)
	}
	return s.finishErr()
}

func (s *Session) finishErr() error {
	var errs []error
	if s.state == StateSequence {
		errs = append(errs, fmt.Errorf("%w: ##DNA block not terminated", ErrSequence))
	}
	if s.stats.Orphans > 0 && s.opts.Parents == ParentLenient {
		errs = append(errs, fmt.Errorf("%w: %d transcript parts never found their parent", ErrBody, s.stats.Orphans))
	}
	if s.state == StateError {
		errs = append(errs, fmt.Errorf("%w: %v", ErrTerminated, s.lastErr))
	}
	return errors.Join(errs...)
}

/* ------------------------------- accessors ------------------------------ */

// Features returns the feature store built so far.
func (s *Session) Features() *feature.Store { return s.store }

// Err returns the most recent error, or nil.
func (s *Session) Err() error { return s.lastErr }

// Errors returns the recorded errors in input order.
func (s *Session) Errors() []error { return s.errs }

func (s *Session) State() State           { return s.state }
func (s *Session) Header() *header.Header { return s.hdr }
func (s *Session) Region() header.Region  { return s.region }
func (s *Session) Styles() *style.Set     { return s.opts.Styles }
func (s *Session) Terms() *so.Collection  { return s.terms }

// Stats returns the counters so far.
func (s *Session) Stats() Stats {
	s.stats.Features = s.store.Len()
	return s.stats
}

// Sequences returns the ##DNA blocks followed by the ##FASTA records.
func (s *Session) Sequences() []fasta.Record {
	out := append([]fasta.Record(nil), s.sequences...)
	return append(out, s.fasta.Records()...)
}

// HeaderComplete reports whether the version and a sequence region are
// known.
func (s *Session) HeaderComplete() bool { return s.hdr.Minimal() }

// Version returns the GFF version in effect.
func (s *Session) Version() int {
	if s.hdr.Version != 0 {
		return s.hdr.Version
	}
	return s.opts.Version
}
