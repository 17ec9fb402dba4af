// core/gffstr/fold.go
package gffstr

import "golang.org/x/text/cases"

// SameName compares sequence names the way GFF headers and body lines are
// matched: case-insensitively, using Unicode case folding.
func SameName(a, b string) bool {
	if a == b {
		return true
	}
	// a Caser is stateful and must not be shared between sessions
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
