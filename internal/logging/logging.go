// internal/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when neither config nor flags set one.
const DefaultLevel = "warn"

// New returns the logger shared by the CLI and the parser.
func New(w io.Writer, level string) (*log.Logger, error) {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "gffkit",
		ReportTimestamp: false,
	})
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	l.SetLevel(lvl)
	return l, nil
}
