package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.gff3")
	b := filepath.Join(dir, "b.gff3")
	_ = os.WriteFile(a, []byte("##gff-version 3\n"), 0o644)
	_ = os.WriteFile(b, []byte("##gff-version 3\n"), 0o644)

	got, err := ExpandInputs([]string{filepath.Join(dir, "*.gff3"), "-"})
	if err != nil || len(got) != 3 || got[0] != a || got[1] != b || got[2] != "-" {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
}

func TestExpandInputsErrors(t *testing.T) {
	if _, err := ExpandInputs([]string{"-", "-"}); err == nil {
		t.Fatal("want error for repeated stdin")
	}
	if _, err := ExpandInputs([]string{filepath.Join(t.TempDir(), "*.gff")}); err == nil {
		t.Fatal("want error for an empty glob")
	}
}
