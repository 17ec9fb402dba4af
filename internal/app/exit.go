// internal/app/exit.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ExitOK        = 0
	ExitInvalid   = 1 // input failed validation
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

// ExitError carries an exit code out of a RunE handler. Err may be nil
// when the command has already reported the failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

func usageErr(err error) error { return &ExitError{Code: ExitUsage, Err: err} }

// exitCode maps an Execute error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	}
	msg := err.Error()
	for _, p := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "flag needs an argument", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, p) {
			return ExitUsage
		}
	}
	return ExitRuntime
}
