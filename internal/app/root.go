// internal/app/root.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gffkit/core/gff3"
	"gffkit/internal/config"
	"gffkit/internal/logging"
	"gffkit/internal/version"
	"gffkit/internal/writers"
)

// globals are the persistent flags; each overrides config only when set.
type globals struct {
	configPath   string
	logLevel     string
	sequence     string
	start, end   int
	clip         string
	soLevel      string
	soSet        string
	stopOnError  bool
	parentPolicy string
}

type env struct {
	stdout, stderr io.Writer
	g              globals
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "gffkit",
		Short: "Parse, validate and rewrite GFF2/GFF3 annotation",
		Long: titleStyle.Render("gffkit") + hintStyle.Render(" - streaming GFF2/GFF3 parser") + `

gffkit reads GFF for one reference sequence, checks the header and every
body line against the Sequence Ontology, assembles transcripts and
alignments, and writes the features back as GFF3, JSON, JSONL or YAML.

` + labelStyle.Render("Examples:") + `
  gffkit validate genes.gff3
  gffkit parse --format jsonl --sequence chr1 genes.gff3.gz
  gffkit convert - < old.gff > new.gff3
  gffkit so lookup SO:0000704`,
		SilenceUsage: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageErr(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&e.g.configPath, "config", "", "config file (default is $HOME/.config/gffkit/config.toml)")
	pf.StringVar(&e.g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&e.g.sequence, "sequence", "", "sequence name body lines must carry")
	pf.IntVar(&e.g.start, "start", 0, "start of the wanted range (1-based)")
	pf.IntVar(&e.g.end, "end", 0, "end of the wanted range")
	pf.StringVar(&e.g.clip, "clip", "", "features crossing the range: none, overlap or all")
	pf.StringVar(&e.g.soLevel, "so-level", "", "unknown SO terms: none, warn or error")
	pf.StringVar(&e.g.soSet, "so-set", "", "SO table: sofa, soxp or soxp-simple")
	pf.BoolVar(&e.g.stopOnError, "stop-on-error", false, "stop at the first body error")
	pf.StringVar(&e.g.parentPolicy, "parent-policy", "", "parts before their parent: strict or lenient")

	root.AddCommand(
		newParseCmd(e),
		newConvertCmd(e),
		newValidateCmd(e),
		newSOCmd(e),
		newConfigCmd(e),
	)
	return root
}

// loadConfig reads the config file and applies the flags that were set.
func (e *env) loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: e.g.configPath})
	if err != nil {
		return nil, "", usageErr(err)
	}
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel = e.g.logLevel
	}
	if f.Changed("sequence") {
		cfg.Sequence = e.g.sequence
	}
	if f.Changed("start") {
		cfg.Start = e.g.start
	}
	if f.Changed("end") {
		cfg.End = e.g.end
	}
	if f.Changed("clip") {
		cfg.ClipMode = e.g.clip
	}
	if f.Changed("so-level") {
		cfg.SOErrorLevel = e.g.soLevel
	}
	if f.Changed("so-set") {
		cfg.SOSet = e.g.soSet
	}
	if f.Changed("stop-on-error") {
		cfg.StopOnError = e.g.stopOnError
	}
	if f.Changed("parent-policy") {
		cfg.ParentPolicy = e.g.parentPolicy
	}
	return cfg, path, nil
}

// sessionOptions is loadConfig followed by the logger and parser options.
func (e *env) sessionOptions(cmd *cobra.Command) (gff3.Options, *log.Logger, error) {
	cfg, path, err := e.loadConfig(cmd)
	if err != nil {
		return gff3.Options{}, nil, err
	}
	logger, err := logging.New(e.stderr, cfg.LogLevel)
	if err != nil {
		return gff3.Options{}, nil, usageErr(err)
	}
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	opts, err := cfg.SessionOptions(logger)
	if err != nil {
		return gff3.Options{}, nil, usageErr(err)
	}
	return opts, logger, nil
}

func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var ee *ExitError
	if errors.As(err, &ee) && ee.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// RunContext runs the command line argv and returns the exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	e := &env{stdout: outw, stderr: stderr}
	root := newRootCmd(e)
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	err := fang.Execute(ctx, root,
		fang.WithVersion(version.Version),
		fang.WithErrorHandler(errorHandler),
		fang.WithNotifySignal(os.Interrupt),
	)
	if ferr := outw.Flush(); ferr != nil && !writers.IsBrokenPipe(ferr) {
		_, _ = fmt.Fprintln(stderr, ferr)
		if err == nil {
			return ExitRuntime
		}
	}
	if writers.IsBrokenPipe(err) {
		return ExitOK
	}
	if ctx.Err() != nil && err != nil {
		return ExitCancelled
	}
	return exitCode(err)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
