// core/gff3/errors.go
package gff3

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a Session reports wraps exactly one of these.
var (
	ErrHeader     = errors.New("header error")
	ErrBody       = errors.New("body error")
	ErrSequence   = errors.New("sequence error")
	ErrFasta      = errors.New("fasta error")
	ErrAttribute  = errors.New("attribute error")
	ErrTerminated = errors.New("parser stopped after an earlier error")
)

// LineError ties an error to the input line it came from.
type LineError struct {
	Line int
	Kind error
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Kind, e.Msg)
}

func (e *LineError) Unwrap() error { return e.Kind }

func lineErr(line int, kind error, format string, a ...any) *LineError {
	return &LineError{Line: line, Kind: kind, Msg: fmt.Sprintf(format, a...)}
}
