// internal/input/pump.go
package input

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"gffkit/core/gff3"
)

// Lines calls fn for each line of r. It returns promptly when ctx is done.
func Lines(ctx context.Context, r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	// inline ##DNA and ##FASTA lines can be long
	const maxLine = 64 * 1024 * 1024
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}

// Parse feeds every line of r to a new session and finishes it. Line
// errors stay on the session; the returned error is only for I/O
// failure, cancellation or bad options. Call Finish on the session again
// to get the parse outcome.
func Parse(ctx context.Context, r io.Reader, opts gff3.Options) (*gff3.Session, error) {
	s, err := gff3.NewSession(opts)
	if err != nil {
		return nil, err
	}
	err = Lines(ctx, r, func(line string) error {
		_ = s.FeedLine(line)
		return nil
	})
	_ = s.Finish()
	return s, err
}

// ParseFile is Parse over Open(path).
func ParseFile(ctx context.Context, path string, opts gff3.Options) (*gff3.Session, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	s, err := Parse(ctx, rc, opts)
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
