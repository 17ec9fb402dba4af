// core/fasta/stream.go
package fasta

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// ScanCtx parses FASTA from r and calls emit once per complete record.
// It returns promptly when ctx is done, even mid-record.
func ScanCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var b Builder
	sent := 0
	flush := func(upTo int) error {
		for ; sent < upTo; sent++ {
			if err := emit(b.recs[sent]); err != nil {
				return err
			}
		}
		return nil
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.Feed(sc.Bytes()); err != nil {
			return err
		}
		// everything before the open record is complete
		if err := flush(b.Len() - 1); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush(b.Len())
}

// ReadAll collects every record of r.
func ReadAll(ctx context.Context, r io.Reader) ([]Record, error) {
	var out []Record
	err := ScanCtx(ctx, r, func(rec Record) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}
