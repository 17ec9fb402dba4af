package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown", "line", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info logged at default level:\n%s", out)
	}
	if !strings.Contains(out, "gffkit") || !strings.Contains(out, "line=3") {
		t.Fatalf("unexpected log output:\n%s", out)
	}

	if _, err := New(&buf, "chatty"); err == nil {
		t.Fatalf("bad level accepted")
	}
	if _, err := New(&buf, "DEBUG"); err != nil {
		t.Fatalf("DEBUG: %v", err)
	}
}
