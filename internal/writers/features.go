// internal/writers/features.go
package writers

import (
	"encoding/json"
	"errors"
	"io"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-yaml"

	"gffkit/core/dump"
	"gffkit/core/fasta"
	"gffkit/core/feature"
	"gffkit/core/header"
	"gffkit/core/style"
	"gffkit/pkg/api"
)

// Meta is what a writer knows about the parse besides the features.
type Meta struct {
	Source     string // input path, "-" for stdin
	Version    int
	Region     header.Region
	Sequences  []fasta.Record
	Styles     *style.Set
	TypeNames  bool // gff3: write SO names instead of accessions
	WithFasta  bool // gff3: append a ##FASTA section
	AppVersion string
	Logger     *log.Logger
}

// Payload is handed to a registered writer.
type Payload struct {
	Meta
	In <-chan *feature.Feature
}

// IsBrokenPipe reports whether err comes from a reader that went away,
// as when output is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

func drain(ch <-chan *feature.Feature) []*feature.Feature {
	list := make([]*feature.Feature, 0, 128)
	for f := range ch {
		list = append(list, f)
	}
	return list
}

func apiList(list []*feature.Feature) []api.FeatureV1 {
	out := make([]api.FeatureV1, len(list))
	for i, f := range list {
		out[i] = ToAPIFeature(f)
	}
	return out
}

func init() {
	// GFF3 stream
	RegisterFeature(FormatGFF3, func(w io.Writer, p Payload) error {
		ctx := dump.NewContext(p.Version, p.Styles)
		ctx.Region = p.Region
		ctx.TypeNames = p.TypeNames
		if p.AppVersion != "" {
			ctx.AppVersion = p.AppVersion
		}
		if p.WithFasta {
			ctx.Sequences = p.Sequences
		}
		if err := ctx.WriteHeader(w); err != nil {
			drain(p.In)
			return err
		}
		var werr error
		for f := range p.In {
			if werr != nil {
				continue
			}
			text, err := ctx.FormatFeature(f)
			if err != nil {
				if p.Logger != nil {
					p.Logger.Warn("feature not written", "id", f.UniqueID, "err", err)
				}
				continue
			}
			_, werr = io.WriteString(w, text)
		}
		if werr != nil {
			return werr
		}
		return ctx.WriteFasta(w)
	})

	// JSON array
	RegisterFeature(FormatJSON, func(w io.Writer, p Payload) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(apiList(drain(p.In)))
	})

	// JSONL streaming
	RegisterFeature(FormatJSONL, func(w io.Writer, p Payload) error {
		pipe, done := StartFeatureJSONLWriter(w, 64)
		for f := range p.In {
			pipe <- f
		}
		close(pipe)
		return <-done
	})

	// YAML sequence
	RegisterFeature(FormatYAML, func(w io.Writer, p Payload) error {
		out, err := yaml.Marshal(apiList(drain(p.In)))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	})

	RegisterFeature(FormatSummary, func(w io.Writer, p Payload) error {
		return WriteSummary(w, p.Source, drain(p.In))
	})
}

// StartFeatureWriter runs the writer for format in a goroutine. Send
// features on the returned channel, close it, then read the error.
// An unknown format fails after the channel is closed.
func StartFeatureWriter(out io.Writer, format string, meta Meta, bufSize int) (chan<- *feature.Feature, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan *feature.Feature, bufSize)
	errCh := make(chan error, 1)
	go func() {
		if _, ok := FeatureWriters[format]; !ok {
			drain(in)
		}
		errCh <- WriteFeatures(format, out, Payload{Meta: meta, In: in})
	}()
	return in, errCh
}
