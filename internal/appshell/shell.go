// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main runs a command line with a context cancelled on SIGINT or SIGTERM
// and exits with its code. A bare invocation prints help.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, Args(os.Args[1:]), os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	stop()
	os.Exit(code)
}

// Args maps an empty command line to --help.
func Args(argv []string) []string {
	if len(argv) == 0 {
		return []string{"--help"}
	}
	return argv
}
