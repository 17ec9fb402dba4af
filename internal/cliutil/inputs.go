// internal/cliutil/inputs.go
package cliutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandInputs expands "~" and globs among input paths. "-" (stdin) is
// passed through but may appear only once. A glob matching nothing is an
// error.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	stdin := false
	for _, a := range args {
		if a == "-" {
			if stdin {
				return nil, fmt.Errorf("stdin (-) given more than once")
			}
			stdin = true
			out = append(out, a)
			continue
		}
		p, err := homedir.Expand(a)
		if err != nil {
			return nil, err
		}
		if !hasGlobMeta(p) {
			out = append(out, p)
			continue
		}
		m, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %v", a, err)
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("no input matched %q", a)
		}
		sort.Strings(m)
		out = append(out, m...)
	}
	return out, nil
}
