package header

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, line string) Directive {
	t.Helper()
	d, err := Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q): %v", line, err)
	}
	return d
}

func TestParseDirectives(t *testing.T) {
	cases := []struct {
		line string
		want Directive
	}{
		{"##gff-version 3", Version{Number: 3}},
		{"##gff-version 3.1.26", Version{Number: 3}},
		{"##sequence-region chr1 1 1000", SequenceRegion{Name: "chr1", Start: 1, End: 1000}},
		{"##feature-ontology http://x/so.obo", Ontology{Of: KindFeatureOntology, URI: "http://x/so.obo"}},
		{"##species http://www.ncbi.nlm.nih.gov/Taxonomy/?id=9606", Species{URI: "http://www.ncbi.nlm.nih.gov/Taxonomy/?id=9606"}},
		{"##genome-build NCBI B36", GenomeBuild{Source: "NCBI", Name: "B36"}},
		{"##DNA", DNA{}},
		{"##end-DNA", EndDNA{}},
		{"##FASTA", FASTA{}},
		{"###", Close{}},
		{"##date 2024-01-01", Unknown{Name: "date", Text: "2024-01-01"}},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.line); got != tc.want {
			t.Fatalf("Parse(%q) = %#v want %#v", tc.line, got, tc.want)
		}
	}
	for _, bad := range []string{
		"##gff-version",
		"##gff-version three",
		"##sequence-region chr1 1",
		"##sequence-region chr1 a b",
		"##genome-build NCBI",
		"##species",
		"# comment",
	} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
	if _, err := Parse("##species"); !errors.Is(err, ErrArity) {
		t.Fatalf("want ErrArity, got %v", err)
	}
}

func TestVersionRules(t *testing.T) {
	h := New()
	if err := h.Apply(Version{3}, 2, nil); err == nil {
		t.Fatalf("version 3 off line 1 must fail")
	}
	if err := h.Apply(Version{4}, 1, nil); err == nil {
		t.Fatalf("version 4 must fail")
	}
	if err := h.Apply(Version{3}, 1, nil); err != nil {
		t.Fatalf("version 3 on line 1: %v", err)
	}
	if err := h.Apply(Version{3}, 1, nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate version: %v", err)
	}
	h2 := New()
	if err := h2.Apply(Version{2}, 5, nil); err != nil || h2.Version != 2 {
		t.Fatalf("version 2 anywhere: %v", err)
	}
}

func TestSequenceRegionAndMinimal(t *testing.T) {
	h := New()
	region := &Region{}
	if err := h.Apply(Version{3}, 1, region); err != nil {
		t.Fatal(err)
	}
	if h.Minimal() {
		t.Fatalf("minimal before sequence-region")
	}
	if err := h.Apply(SequenceRegion{"chr1", 1, 1000}, 2, region); err != nil {
		t.Fatal(err)
	}
	if !h.Minimal() || region.Name != "chr1" || region.End != 1000 {
		t.Fatalf("region not adopted: %+v minimal=%v", region, h.Minimal())
	}
	if err := h.Apply(SequenceRegion{"chr9", 5, 1}, 3, region); err != nil {
		t.Fatalf("repeat must be a no-op, got %v", err)
	}

	sess := &Region{Name: "CHR1", Start: 500, End: 600}
	h = New()
	if err := h.Apply(SequenceRegion{"chr2", 1, 1000}, 2, sess); err == nil {
		t.Fatalf("name mismatch must fail")
	}
	if err := h.Apply(SequenceRegion{"chr1", 700, 1000}, 2, sess); err == nil {
		t.Fatalf("non-overlap must fail")
	}
	if err := h.Apply(SequenceRegion{"chr1", 10, 5}, 2, sess); err == nil {
		t.Fatalf("end < start must fail")
	}
	if err := h.Apply(SequenceRegion{"chr1", 550, 5000}, 2, sess); err != nil {
		t.Fatalf("overlapping region: %v", err)
	}

	h = New()
	if err := h.Apply(Version{3}, 1, &Region{Name: "chr1", Start: 1, End: 1000}); err != nil {
		t.Fatal(err)
	}
	if h.Minimal() || h.Seen(KindSequenceRegion) {
		t.Fatalf("a session range alone must not complete the header")
	}
}

func TestOnceOnlyDirectives(t *testing.T) {
	h := New()
	if err := h.Apply(Species{"x"}, 2, nil); err != nil {
		t.Fatal(err)
	}
	if err := h.Apply(Species{"y"}, 3, nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate species: %v", err)
	}
	if err := h.Apply(Ontology{Of: KindFeatureOntology, URI: "a"}, 2, nil); err != nil {
		t.Fatal(err)
	}
	if err := h.Apply(Ontology{Of: KindAttributeOntology, URI: "b"}, 3, nil); err != nil {
		t.Fatalf("different ontology kinds are independent: %v", err)
	}
	if err := h.Apply(Unknown{Name: "date"}, 4, nil); err != nil || len(h.Unknown) != 1 {
		t.Fatalf("unknown: %v", err)
	}
}
