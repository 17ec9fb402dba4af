// core/attribute/decoders.go
package attribute

import (
	"fmt"
	"strconv"
	"strings"

	"gffkit/core/feature"
	"gffkit/core/gffstr"
	"gffkit/core/so"
	"gffkit/core/style"
)

func expect(a Attribute, names ...string) error {
	for _, n := range names {
		if a.Name == n {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not %s", ErrWrongName, a.Name, strings.Join(names, "/"))
}

func grammar(a Attribute, why string) error {
	return fmt.Errorf("%w: %s=%q: %s", ErrGrammar, a.Name, a.Value, why)
}

/* -------------------------------- scalars ------------------------------- */

// Scalar returns the unescaped value of an attribute called name. Empty
// values are rejected.
func Scalar(a Attribute, name string) (string, error) {
	if err := expect(a, name); err != nil {
		return "", err
	}
	if a.Value == "" {
		return "", grammar(a, "empty value")
	}
	return Unescape(a.Value), nil
}

// List splits a multivalued attribute and unescapes every element.
func List(a Attribute, name string) ([]string, error) {
	if err := expect(a, name); err != nil {
		return nil, err
	}
	vals := a.Values()
	if len(vals) == 0 {
		return nil, grammar(a, "empty value")
	}
	for i := range vals {
		vals[i] = Unescape(vals[i])
	}
	return vals, nil
}

func ParseID(a Attribute) (string, error)          { return Scalar(a, ID) }
func ParseName(a Attribute) (string, error)        { return Scalar(a, Name) }
func ParseDerivesFrom(a Attribute) (string, error) { return Scalar(a, DerivesFrom) }
func ParseKnownName(a Attribute) (string, error)   { return Scalar(a, KnownName) }
func ParseSource(a Attribute) (string, error)      { return Scalar(a, Source) }
func ParseURL(a Attribute) (string, error)         { return Scalar(a, URL) }
func ParseSequence(a Attribute) (string, error)    { return Scalar(a, Sequence) }
func ParseParent(a Attribute) ([]string, error)    { return List(a, Parent) }
func ParseAlias(a Attribute) ([]string, error)     { return List(a, Alias) }

// ParseNote returns the whole note as one description string.
func ParseNote(a Attribute) (string, error) { return Scalar(a, Note) }

// ParseLocus accepts both the GFF3 "locus" and the acedb "Locus" spelling.
func ParseLocus(a Attribute) (string, error) {
	if err := expect(a, LocusV3, Locus); err != nil {
		return "", err
	}
	if a.Value == "" {
		return "", grammar(a, "empty value")
	}
	return Unescape(a.Value), nil
}

/* -------------------------------- target -------------------------------- */

// TargetValue is the decoded form of "Target=<id> <start> <end> [<strand>]".
type TargetValue struct {
	ID     string
	Start  int
	End    int
	Strand feature.Strand
}

func ParseTarget(a Attribute) (TargetValue, error) {
	var tv TargetValue
	if err := expect(a, Target); err != nil {
		return tv, err
	}
	f := gffstr.Tokenize(a.Value, ' ', false, 0)
	if len(f) != 3 && len(f) != 4 {
		return tv, grammar(a, "want <id> <start> <end> [<strand>]")
	}
	id, _ := removeQuotes(f[0])
	start, err1 := strconv.ParseUint(f[1], 10, 31)
	end, err2 := strconv.ParseUint(f[2], 10, 31)
	if id == "" || err1 != nil || err2 != nil {
		return tv, grammar(a, "bad id or coordinates")
	}
	if start > end {
		return tv, grammar(a, "start > end")
	}
	tv = TargetValue{ID: Unescape(id), Start: int(start), End: int(end), Strand: feature.StrandNone}
	if len(f) == 4 {
		switch f[3] {
		case "+":
			tv.Strand = feature.StrandForward
		case "-":
			tv.Strand = feature.StrandReverse
		default:
			return TargetValue{}, grammar(a, "bad strand")
		}
	}
	return tv, nil
}

// ParseTargetV2 reads the acedb form `"Class:name" rest` and returns the
// name and the remainder.
func ParseTargetV2(a Attribute) (string, string, error) {
	if err := expect(a, Target); err != nil {
		return "", "", err
	}
	return classQuoted(a)
}

// ParseAssemblySource reads `"Class:name" rest` from an Assembly_source tag.
func ParseAssemblySource(a Attribute) (string, string, error) {
	if err := expect(a, AssemblySource); err != nil {
		return "", "", err
	}
	return classQuoted(a)
}

func classQuoted(a Attribute) (string, string, error) {
	v := a.Value
	if !strings.HasPrefix(v, `"`) {
		return "", "", grammar(a, "want quoted class:name")
	}
	closing := strings.IndexByte(v[1:], '"')
	if closing < 0 {
		return "", "", grammar(a, "unterminated quote")
	}
	inner := v[1 : 1+closing]
	_, name, ok := strings.Cut(inner, ":")
	rest := strings.TrimSpace(v[2+closing:])
	if !ok || name == "" || rest == "" {
		return "", "", grammar(a, "want quoted class:name followed by a value")
	}
	return name, rest, nil
}

// ParseAnyTwoStrings reads an acedb `Class "name"` unit: the tag is the
// class and the quoted value the object name.
func ParseAnyTwoStrings(a Attribute) (string, string, error) {
	if a.Name == "" {
		return "", "", fmt.Errorf("%w: empty tag", ErrWrongName)
	}
	v := a.Value
	if !a.Quoted {
		q, ok := removeQuotes(v)
		if !ok {
			return "", "", grammar(a, "value is not quoted")
		}
		v = q
	}
	if v == "" || strings.ContainsRune(v, '"') {
		return "", "", grammar(a, "bad quoted value")
	}
	return a.Name, v, nil
}

/* ----------------------------- db references ---------------------------- */

func parseXref(a Attribute, v string) (feature.Xref, error) {
	pos := gffstr.FindUnquoted(v, '"', ':')
	if len(pos) == 0 {
		return feature.Xref{}, grammar(a, "want <db>:<id>")
	}
	db, id := v[:pos[0]], v[pos[0]+1:]
	if db == "" || id == "" {
		return feature.Xref{}, grammar(a, "want <db>:<id>")
	}
	return feature.Xref{DB: db, ID: id}, nil
}

func parseXrefs(a Attribute, name string) ([]feature.Xref, error) {
	vals, err := List(a, name)
	if err != nil {
		return nil, err
	}
	out := make([]feature.Xref, 0, len(vals))
	for _, v := range vals {
		x, err := parseXref(a, v)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func ParseDbxref(a Attribute) ([]feature.Xref, error)       { return parseXrefs(a, Dbxref) }
func ParseOntologyTerm(a Attribute) ([]feature.Xref, error) { return parseXrefs(a, OntologyTerm) }

/* ---------------------------- small grammars ---------------------------- */

func ParseIsCircular(a Attribute) (bool, error) {
	if err := expect(a, IsCircular); err != nil {
		return false, err
	}
	switch a.Value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, grammar(a, `want "true" or "false"`)
}

func ParsePercentID(a Attribute) (float64, error) {
	if err := expect(a, PercentID); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
	if err != nil {
		return 0, grammar(a, "not a number")
	}
	return v, nil
}

// ParseLength reads the sequence length of an alignment target.
func ParseLength(a Attribute) (int, error) {
	if err := expect(a, LengthV3, Length); err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(a.Value))
	if err != nil {
		return 0, grammar(a, "not an integer")
	}
	return v, nil
}

// ParseStartNotFound returns the 1..3 offset to the first complete codon.
func ParseStartNotFound(a Attribute) (int, error) {
	if err := expect(a, StartNotFound); err != nil {
		return 0, err
	}
	f := gffstr.Tokenize(a.Value, ' ', false, 2)
	if len(f) == 0 {
		return 0, grammar(a, "empty value")
	}
	v, err := strconv.Atoi(f[0])
	if err != nil || v < 1 || v > 3 {
		return 0, grammar(a, "want 1, 2 or 3")
	}
	return v, nil
}

// ParseEndNotFound only checks the name; the tag's presence is the value.
func ParseEndNotFound(a Attribute) (bool, error) {
	if err := expect(a, EndNotFound); err != nil {
		return false, err
	}
	return true, nil
}

// ParseClass maps an acedb object class onto a homology type.
func ParseClass(a Attribute) (style.Homol, error) {
	if err := expect(a, Class); err != nil {
		return style.HomolNone, err
	}
	v := strings.ToLower(a.Value)
	switch {
	case strings.HasPrefix(v, "sequence"), strings.HasPrefix(v, "motif"), strings.HasPrefix(v, "sage_tag"):
		return style.HomolDNA, nil
	case strings.HasPrefix(v, "protein"), strings.HasPrefix(v, "mass_spec_peptide"):
		return style.HomolPeptide, nil
	}
	return style.HomolNone, nil
}

// ParseAlign reads "Align <start> <end> <strand>", returning start <= end.
func ParseAlign(a Attribute) (int, int, feature.Strand, error) {
	if err := expect(a, Align); err != nil {
		return 0, 0, feature.StrandNone, err
	}
	f := gffstr.Tokenize(a.Value, ' ', false, 0)
	if len(f) != 3 {
		return 0, 0, feature.StrandNone, grammar(a, "want <start> <end> <strand>")
	}
	start, err1 := strconv.Atoi(f[0])
	end, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil || len(f[2]) != 1 {
		return 0, 0, feature.StrandNone, grammar(a, "bad coordinates or strand")
	}
	if start > end {
		start, end = end, start
	}
	strand := feature.StrandReverse
	if f[2] == "+" {
		strand = feature.StrandForward
	}
	return start, end, strand, nil
}

// VariationName is the decoded acedb "Name <name> - <allele>" form.
type VariationName struct {
	Name   string
	Allele string
	SOTerm string
}

// ParseNameV2 decodes a variation name. It fails unless the allele maps
// onto an SO term.
func ParseNameV2(a Attribute) (VariationName, error) {
	if err := expect(a, Name); err != nil {
		return VariationName{}, err
	}
	name, allele, ok := strings.Cut(a.Value, " - ")
	name, allele = strings.TrimSpace(name), strings.TrimSpace(strings.Trim(allele, `"`))
	if !ok || name == "" || allele == "" {
		return VariationName{}, grammar(a, "want <name> - <allele>")
	}
	term := so.Variation2SO(allele)
	if term == "" {
		return VariationName{}, grammar(a, "allele does not map to an SO term")
	}
	return VariationName{Name: name, Allele: allele, SOTerm: term}, nil
}

// ParseVariation reads an ensembl_variation allele and its SO term.
func ParseVariation(a Attribute) (string, string, error) {
	v, err := Scalar(a, Variation)
	if err != nil {
		return "", "", err
	}
	term := so.Variation2SO(v)
	if term == "" {
		return v, "", grammar(a, "allele does not map to an SO term")
	}
	return v, term, nil
}
