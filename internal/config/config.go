// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"gffkit/core/gff3"
	"gffkit/core/so"
	"gffkit/core/style"
)

const (
	AppName        = "gffkit"
	ConfigFileName = "config"
	ConfigFileExt  = "toml"
	EnvPrefix      = "GFFKIT"
)

// StyleConfig binds a source to a feature mode.
type StyleConfig struct {
	Mode  string `mapstructure:"mode" toml:"mode"`
	Homol string `mapstructure:"homol" toml:"homol,omitempty"`
}

// Config holds the session settings read from file, environment and flags.
type Config struct {
	Sequence            string                 `mapstructure:"sequence" toml:"sequence"`
	Start               int                    `mapstructure:"start" toml:"start"`
	End                 int                    `mapstructure:"end" toml:"end"`
	ClipMode            string                 `mapstructure:"clip_mode" toml:"clip_mode"`
	SOSet               string                 `mapstructure:"so_set" toml:"so_set"`
	SOErrorLevel        string                 `mapstructure:"so_error_level" toml:"so_error_level"`
	SOOBO               string                 `mapstructure:"so_obo" toml:"so_obo"`
	StopOnError         bool                   `mapstructure:"stop_on_error" toml:"stop_on_error"`
	ParentPolicy        string                 `mapstructure:"parent_policy" toml:"parent_policy"`
	CheckSequenceLength bool                   `mapstructure:"check_sequence_length" toml:"check_sequence_length"`
	LocusSet            string                 `mapstructure:"locus_set" toml:"locus_set"`
	AdoptSequence       bool                   `mapstructure:"adopt_sequence" toml:"adopt_sequence"`
	AnonymousSource     bool                   `mapstructure:"anonymous_source" toml:"anonymous_source"`
	GFFVersion          int                    `mapstructure:"gff_version" toml:"gff_version"`
	LogLevel            string                 `mapstructure:"log_level" toml:"log_level"`
	Styles              map[string]StyleConfig `mapstructure:"styles" toml:"styles,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ClipMode:     gff3.ClipNone.String(),
		SOSet:        string(so.SOFA),
		SOErrorLevel: so.LevelNone.String(),
		ParentPolicy: gff3.ParentStrict.String(),
		GFFVersion:   3,
		LogLevel:     "warn",
	}
}

// LoadOptions points Load at a config file. An explicit file must exist;
// otherwise the config dir and then the working dir are tried.
type LoadOptions struct {
	ConfigFilePath string
	ConfigDirPath  string
}

// Dir returns ~/.config/gffkit, or $XDG_CONFIG_HOME/gffkit when set.
func Dir() (string, error) {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, AppName), nil
	}
	p, err := homedir.Expand(filepath.Join("~", ".config", AppName))
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return p, nil
}

// Load reads the configuration and returns it with the path it came from
// ("" when only defaults and environment applied).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("sequence", d.Sequence)
	v.SetDefault("start", d.Start)
	v.SetDefault("end", d.End)
	v.SetDefault("clip_mode", d.ClipMode)
	v.SetDefault("so_set", d.SOSet)
	v.SetDefault("so_error_level", d.SOErrorLevel)
	v.SetDefault("so_obo", d.SOOBO)
	v.SetDefault("stop_on_error", d.StopOnError)
	v.SetDefault("parent_policy", d.ParentPolicy)
	v.SetDefault("check_sequence_length", d.CheckSequenceLength)
	v.SetDefault("locus_set", d.LocusSet)
	v.SetDefault("adopt_sequence", d.AdoptSequence)
	v.SetDefault("anonymous_source", d.AnonymousSource)
	v.SetDefault("gff_version", d.GFFVersion)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(ConfigFileExt)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, path, nil
}

func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		p, err := homedir.Expand(opts.ConfigFilePath)
		if err != nil {
			return "", err
		}
		if !fileExists(p) {
			return "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		return p, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = Dir(); err != nil {
			return "", err
		}
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return "", err
	}
	name := ConfigFileName + "." + ConfigFileExt
	for _, p := range []string{filepath.Join(dir, name), name} {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", nil
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// SessionOptions converts c into parser options.
func (c *Config) SessionOptions(logger *log.Logger) (gff3.Options, error) {
	var o gff3.Options
	var err error
	if o.Clip, err = gff3.ParseClipMode(c.ClipMode); err != nil {
		return o, err
	}
	if o.SOSet, err = so.ParseSetName(c.SOSet); err != nil {
		return o, err
	}
	if o.SOLevel, err = so.ParseErrorLevel(c.SOErrorLevel); err != nil {
		return o, err
	}
	if o.Parents, err = gff3.ParseParentPolicy(c.ParentPolicy); err != nil {
		return o, err
	}
	if o.Registry, err = c.registry(o.SOSet); err != nil {
		return o, err
	}
	if o.Styles, err = c.styleSet(); err != nil {
		return o, err
	}
	o.Sequence = c.Sequence
	o.Start, o.End = c.Start, c.End
	o.Version = c.GFFVersion
	o.StopOnError = c.StopOnError
	o.CheckSeqLen = c.CheckSequenceLength
	o.LocusSet = c.LocusSet
	o.AdoptSeqID = c.AdoptSequence
	o.AnonSource = c.AnonymousSource
	o.Logger = logger
	return o, nil
}

// registry returns the built-in tables, with set replaced by the OBO file
// when one is configured.
func (c *Config) registry(set so.SetName) (*so.Registry, error) {
	r, err := so.Builtin()
	if err != nil {
		return nil, err
	}
	if c.SOOBO == "" {
		return r, nil
	}
	p, err := homedir.Expand(c.SOOBO)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("so_obo: %w", err)
	}
	defer fh.Close()
	ref, _ := r.Collection(set)
	coll, err := so.ReadOBO(fh, set, ref)
	if err != nil {
		return nil, fmt.Errorf("so_obo %s: %w", c.SOOBO, err)
	}
	return r.With(set, coll), nil
}

func (c *Config) styleSet() (*style.Set, error) {
	set := style.Defaults()
	sources := make([]string, 0, len(c.Styles))
	for src := range c.Styles {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		sc := c.Styles[src]
		mode, err := style.ParseMode(sc.Mode)
		if err != nil {
			return nil, fmt.Errorf("styles.%s: %w", src, err)
		}
		homol, err := style.ParseHomol(sc.Homol)
		if err != nil {
			return nil, fmt.Errorf("styles.%s: %w", src, err)
		}
		st := style.New(src, mode)
		st.Homol = homol
		set.Bind(src, st)
	}
	return set, nil
}
