// pkg/api/features_v1.go
package api

// FeatureV1 is the stable JSON/JSONL/YAML schema for parsed features.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type FeatureV1 struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Source      string        `json:"source" yaml:"source"`
	Type        string        `json:"type" yaml:"type"`
	Accession   string        `json:"accession,omitempty" yaml:"accession,omitempty"` // "SO:nnnnnnn"
	Mode        string        `json:"mode" yaml:"mode"`
	Style       string        `json:"style,omitempty" yaml:"style,omitempty"`
	SequenceID  string        `json:"sequence_id" yaml:"sequence_id"`
	Start       int           `json:"start" yaml:"start"`
	End         int           `json:"end" yaml:"end"`
	Score       *float64      `json:"score,omitempty" yaml:"score,omitempty"`
	Strand      string        `json:"strand" yaml:"strand"` // "+" | "-" | "."
	Phase       *int          `json:"phase,omitempty" yaml:"phase,omitempty"`
	AttrID      string        `json:"attr_id,omitempty" yaml:"attr_id,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string        `json:"url,omitempty" yaml:"url,omitempty"`
	Variation   string        `json:"variation,omitempty" yaml:"variation,omitempty"`
	Locus       string        `json:"locus,omitempty" yaml:"locus,omitempty"`
	Splice      string        `json:"splice,omitempty" yaml:"splice,omitempty"`
	Alias       []string      `json:"alias,omitempty" yaml:"alias,omitempty"`
	DerivesFrom string        `json:"derives_from,omitempty" yaml:"derives_from,omitempty"`
	Dbxref      []string      `json:"dbxref,omitempty" yaml:"dbxref,omitempty"`
	Ontology    []string      `json:"ontology_term,omitempty" yaml:"ontology_term,omitempty"`
	Circular    *bool         `json:"circular,omitempty" yaml:"circular,omitempty"`
	Transcript  *TranscriptV1 `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	Alignment   *AlignmentV1  `json:"alignment,omitempty" yaml:"alignment,omitempty"`
}

// SpanV1 is a closed 1-based interval.
type SpanV1 struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// TranscriptV1 carries the parts of a transcript-mode feature.
type TranscriptV1 struct {
	Parents       []string `json:"parents,omitempty" yaml:"parents,omitempty"`
	Exons         []SpanV1 `json:"exons,omitempty" yaml:"exons,omitempty"`
	Introns       []SpanV1 `json:"introns,omitempty" yaml:"introns,omitempty"`
	CDS           *SpanV1  `json:"cds,omitempty" yaml:"cds,omitempty"`
	CDSPhase      *int     `json:"cds_phase,omitempty" yaml:"cds_phase,omitempty"`
	StartNotFound int      `json:"start_not_found,omitempty" yaml:"start_not_found,omitempty"`
	EndNotFound   bool     `json:"end_not_found,omitempty" yaml:"end_not_found,omitempty"`
}

// AlignBlockV1 is one gapless block; T is the reference, Q the match.
type AlignBlockV1 struct {
	TStart int `json:"t_start" yaml:"t_start"`
	TEnd   int `json:"t_end" yaml:"t_end"`
	QStart int `json:"q_start" yaml:"q_start"`
	QEnd   int `json:"q_end" yaml:"q_end"`
}

// AlignmentV1 carries the match side of an alignment-mode feature.
type AlignmentV1 struct {
	Target       string         `json:"target" yaml:"target"`
	TargetStart  int            `json:"target_start" yaml:"target_start"`
	TargetEnd    int            `json:"target_end" yaml:"target_end"`
	TargetStrand string         `json:"target_strand,omitempty" yaml:"target_strand,omitempty"`
	Homol        string         `json:"homol" yaml:"homol"`
	PercentID    *float64       `json:"percent_id,omitempty" yaml:"percent_id,omitempty"`
	Length       int            `json:"length,omitempty" yaml:"length,omitempty"`
	Sequence     string         `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Blocks       []AlignBlockV1 `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

// StatsV1 is the summary record written after a parse.
type StatsV1 struct {
	Source           string `json:"source" yaml:"source"`
	Lines            int    `json:"lines" yaml:"lines"`
	Features         int    `json:"features" yaml:"features"`
	SequenceMismatch int    `json:"sequence_mismatch" yaml:"sequence_mismatch"`
	Excluded         int    `json:"excluded" yaml:"excluded"`
	UnknownSO        int    `json:"unknown_so" yaml:"unknown_so"`
	Orphans          int    `json:"orphans" yaml:"orphans"`
	Errors           int    `json:"errors" yaml:"errors"`
}
