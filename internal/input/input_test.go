package input

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"

	"gffkit/core/gff3"
)

const sample = "##gff-version 3\n##sequence-region chr1 1 100\nchr1\tsrc\tgene\t1\t10\t.\t+\t.\tID=g1\n"

func TestOpenPlainAndGzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.gff3")
	if err := os.WriteFile(plain, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	var zbuf bytes.Buffer
	zw := pgzip.NewWriter(&zbuf)
	_, _ = zw.Write([]byte(sample))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	// no .gz suffix: detection must use the magic number
	zipped := filepath.Join(dir, "b.gff3")
	if err := os.WriteFile(zipped, zbuf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{plain, zipped} {
		s, err := ParseFile(context.Background(), p, gff3.Options{})
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if s.Features().Len() != 1 {
			t.Fatalf("%s: %d features", p, s.Features().Len())
		}
	}

	if _, err := ParseFile(context.Background(), filepath.Join(dir, "missing"), gff3.Options{}); err == nil {
		t.Fatalf("missing file opened")
	}
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, strings.NewReader(sample), gff3.Options{})
	if err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestParseBadOptions(t *testing.T) {
	if _, err := Parse(context.Background(), strings.NewReader(sample), gff3.Options{Version: 4}); err == nil {
		t.Fatalf("version 4 accepted")
	}
}
