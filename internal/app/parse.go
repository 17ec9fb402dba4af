// internal/app/parse.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gffkit/core/fasta"
	"gffkit/core/gff3"
	"gffkit/internal/cliutil"
	"gffkit/internal/input"
	"gffkit/internal/report"
	"gffkit/internal/version"
	"gffkit/internal/writers"
	"gffkit/pkg/api"
)

// oneInput accepts a single FILE or "-".
func oneInput(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return usageErr(err)
	}
	return nil
}

type outputFlags struct {
	format    string
	withFasta bool
	typeNames bool
	addFasta  string // extra FASTA file appended to the sequences
}

func newParseCmd(e *env) *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:   "parse FILE|-",
		Short: "Parse GFF and write the assembled features",
		Args:  oneInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runParse(cmd, args[0], of)
		},
	}
	cmd.Flags().StringVarP(&of.format, "format", "f", writers.FormatGFF3,
		"output format: "+strings.Join(writers.Formats(), ", "))
	cmd.Flags().BoolVar(&of.withFasta, "fasta", false, "gff3: append the sequences as a ##FASTA section")
	cmd.Flags().BoolVar(&of.typeNames, "type-names", false, "gff3: write SO term names instead of accessions")
	cmd.Flags().StringVar(&of.addFasta, "add-fasta", "", "gff3: FASTA file appended to the ##FASTA section (implies --fasta)")
	return cmd
}

func newConvertCmd(e *env) *cobra.Command {
	of := outputFlags{format: writers.FormatGFF3}
	cmd := &cobra.Command{
		Use:   "convert FILE|-",
		Short: "Rewrite GFF2 or GFF3 as canonical GFF3",
		Args:  oneInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runParse(cmd, args[0], of)
		},
	}
	cmd.Flags().BoolVar(&of.withFasta, "fasta", false, "append the sequences as a ##FASTA section")
	cmd.Flags().BoolVar(&of.typeNames, "type-names", false, "write SO term names instead of accessions")
	cmd.Flags().StringVar(&of.addFasta, "add-fasta", "", "FASTA file appended to the ##FASTA section (implies --fasta)")
	return cmd
}

// parseInput runs a session over path. A nil session means the input
// could not be read at all.
func (e *env) parseInput(cmd *cobra.Command, path string) (*gff3.Session, *log.Logger, error) {
	opts, logger, err := e.sessionOptions(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := input.ParseFile(cmd.Context(), path, opts)
	if err != nil && s == nil {
		return nil, logger, &ExitError{Code: ExitRuntime, Err: err}
	}
	return s, logger, err
}

func (e *env) runParse(cmd *cobra.Command, path string, of outputFlags) error {
	if _, ok := writers.FeatureWriters[of.format]; !ok {
		return usageErr(fmt.Errorf("unknown output format %q (want one of %s)", of.format, strings.Join(writers.Formats(), ", ")))
	}
	s, logger, err := e.parseInput(cmd, path)
	if err != nil {
		return err
	}
	for _, le := range s.Errors() {
		logger.Debug("line rejected", "err", le)
	}
	if n := s.Stats().Errors; n > 0 {
		logger.Warn("lines rejected", "count", n, "hint", "run validate for details")
	}

	seqs := s.Sequences()
	if of.addFasta != "" {
		extra, err := readFasta(cmd.Context(), of.addFasta)
		if err != nil {
			return &ExitError{Code: ExitRuntime, Err: err}
		}
		seqs = append(seqs, extra...)
		of.withFasta = true
	}

	meta := writers.Meta{
		Source:     path,
		Version:    3,
		Region:     s.Region(),
		Sequences:  seqs,
		Styles:     s.Styles(),
		TypeNames:  of.typeNames,
		WithFasta:  of.withFasta,
		AppVersion: version.Version,
		Logger:     logger,
	}
	in, done := writers.StartFeatureWriter(e.stdout, of.format, meta, 64)
	for _, f := range s.Features().Features() {
		in <- f
	}
	close(in)
	if err := <-done; err != nil {
		if writers.IsBrokenPipe(err) {
			return nil
		}
		return &ExitError{Code: ExitRuntime, Err: err}
	}
	if s.State() == gff3.StateError {
		return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("%s: parsing stopped: %w", path, s.Err())}
	}
	return nil
}

func readFasta(ctx context.Context, path string) ([]fasta.Record, error) {
	rc, err := input.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := fasta.ReadAll(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

func newValidateCmd(e *env) *cobra.Command {
	var (
		asJSON    bool
		noColor   bool
		maxErrors int
	)
	cmd := &cobra.Command{
		Use:   "validate FILE|-...",
		Short: "Check GFF and report errors and counts",
		Long: `Check GFF and report errors and counts. Globs are expanded.

Exits 1 when any line was rejected or an input ended badly.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return usageErr(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := cliutil.ExpandInputs(args)
			if err != nil {
				return usageErr(err)
			}
			var (
				stats   []api.StatsV1
				invalid bool
				fatal   error
			)
			for _, path := range paths {
				r, err := e.validateOne(cmd, path)
				if err != nil {
					return err
				}
				if r.Final != nil {
					fatal = r.Final
				}
				invalid = invalid || !r.OK()
				if asJSON {
					stats = append(stats, writers.ToAPIStats(path, r.Stats))
					continue
				}
				if werr := report.Write(e.stdout, r, report.Options{NoColor: noColor, MaxErrors: maxErrors}); werr != nil {
					return &ExitError{Code: ExitRuntime, Err: werr}
				}
			}
			if asJSON {
				enc := json.NewEncoder(e.stdout)
				enc.SetIndent("", "  ")
				var v any = stats
				if len(stats) == 1 {
					v = stats[0]
				}
				if werr := enc.Encode(v); werr != nil {
					return &ExitError{Code: ExitRuntime, Err: werr}
				}
			}
			switch {
			case errors.Is(fatal, context.Canceled):
				return fatal
			case fatal != nil:
				return &ExitError{Code: ExitRuntime, Err: fatal}
			case invalid:
				return &ExitError{Code: ExitInvalid}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the counters as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colour")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 20, "errors listed before eliding (negative lists all)")
	return cmd
}

// validateOne parses path into a report. Only option errors are returned;
// unreadable input lands in Report.Final.
func (e *env) validateOne(cmd *cobra.Command, path string) (report.Report, error) {
	r := report.Report{Source: path}
	opts, _, err := e.sessionOptions(cmd)
	if err != nil {
		return r, err
	}
	s, err := input.ParseFile(cmd.Context(), path, opts)
	r.Final = err
	if s != nil {
		r.Stats = s.Stats()
		r.Errors = s.Errors()
		r.Finish = s.Finish()
	}
	return r, nil
}
