// core/so/builtin.go
package so

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"

	"gffkit/core/style"
)

//go:embed terms.toml
var termsTOML []byte

type termFile struct {
	Term []struct {
		Accession uint32   `toml:"accession"`
		Name      string   `toml:"name"`
		Mode      string   `toml:"mode"`
		Homol     string   `toml:"homol"`
		Sets      []string `toml:"sets"`
	} `toml:"term"`
}

var (
	builtinOnce sync.Once
	builtinReg  *Registry
	builtinErr  error
)

// Builtin returns the registry decoded from the embedded tables. It is
// built once per process and shared read-only.
func Builtin() (*Registry, error) {
	builtinOnce.Do(func() {
		builtinReg, builtinErr = Decode(termsTOML)
	})
	return builtinReg, builtinErr
}

// MustBuiltin is Builtin for callers that cannot recover from a broken
// embedded table.
func MustBuiltin() *Registry {
	r, err := Builtin()
	if err != nil {
		panic(err)
	}
	return r
}

// Decode builds a registry from TOML in the embedded table format.
func Decode(data []byte) (*Registry, error) {
	var tf termFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("so: decode terms: %w", err)
	}
	r := &Registry{sets: map[SetName]*Collection{}}
	for _, n := range []SetName{SOFA, SOXP, SOXPSimple} {
		r.sets[n] = newCollection(n)
	}
	for i, row := range tf.Term {
		if row.Name == "" || row.Accession > MaxAccession {
			return nil, fmt.Errorf("so: term %d: bad name or accession", i)
		}
		mode, err := style.ParseMode(row.Mode)
		if err != nil {
			return nil, fmt.Errorf("so: term %q: %w", row.Name, err)
		}
		homol, err := style.ParseHomol(row.Homol)
		if err != nil {
			return nil, fmt.Errorf("so: term %q: %w", row.Name, err)
		}
		t := Term{Accession: row.Accession, Name: row.Name, Mode: mode, Homol: homol}
		for _, s := range row.Sets {
			name, err := ParseSetName(s)
			if err != nil {
				return nil, fmt.Errorf("so: term %q: %w", row.Name, err)
			}
			r.sets[name].add(t)
		}
	}
	for _, c := range r.sets {
		addGraphTerms(c)
	}
	return r, nil
}
