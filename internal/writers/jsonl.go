// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"gffkit/core/feature"
	"gffkit/internal/jsonlutil"
)

// StartFeatureJSONLWriter streams each feature as one JSON line (v1).
func StartFeatureJSONLWriter(out io.Writer, bufSize int) (chan<- *feature.Feature, <-chan error) {
	return jsonlutil.Start[*feature.Feature](out, bufSize,
		func(enc *json.Encoder, f *feature.Feature) error {
			return enc.Encode(ToAPIFeature(f))
		},
		IsBrokenPipe,
	)
}
