// core/so/obo.go
package so

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gffkit/core/style"
)

// ReadOBO builds a collection from an OBO stream. Only [Term] stanzas are
// read and only their id, name and is_obsolete tags are used; obsolete
// terms are skipped. Modes and homol types are taken from ref when it knows
// the term name, otherwise terms default to basic.
func ReadOBO(r io.Reader, name SetName, ref *Collection) (*Collection, error) {
	c := newCollection(name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var (
		inTerm   bool
		acc      uint32
		hasAcc   bool
		termName string
		obsolete bool
	)
	flush := func() {
		if inTerm && hasAcc && termName != "" && !obsolete {
			t := Term{Accession: acc, Name: termName, Mode: style.Basic}
			if ref != nil {
				if known, ok := ref.ByName(termName); ok {
					t.Mode, t.Homol = known.Mode, known.Homol
				}
			}
			c.add(t)
		}
		inTerm, hasAcc, termName, obsolete = false, false, "", false
	}

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '!' {
			continue
		}
		if line[0] == '[' {
			flush()
			inTerm = line == "[Term]"
			continue
		}
		if !inTerm {
			continue
		}
		tag, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = stripOBOComment(strings.TrimSpace(val))
		switch tag {
		case "id":
			a, ok := ParseAccession(val)
			if !ok {
				// other ontologies mixed into the file
				continue
			}
			acc, hasAcc = a, true
		case "name":
			termName = val
		case "is_obsolete":
			obsolete = val == "true"
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obo scan (line %d): %w", lineNo, err)
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("obo: no SO terms found")
	}
	addGraphTerms(c)
	return c, nil
}

func stripOBOComment(s string) string {
	if i := strings.Index(s, " !"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
