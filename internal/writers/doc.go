// Package writers turns parsed features into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (GFF3 text, JSON/JSONL/YAML, summaries).
//   - core/gff3 stays parse-only; core/dump is the only GFF3 formatter.
//   - JSON/JSONL/YAML go through pkg/api (v1) for a stable wire format.
package writers
