// Package config loads compilation settings for a target directory.
// Everything has a working default; an optional texmk.yaml next to the
// document overrides individual entries, and TEXMK_* environment
// variables (optionally loaded from a .env file) override the tool names.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adnsv/go-utils/fs"
	"github.com/adnsv/texmk/compile"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the per-directory configuration file.
const FileName = "texmk.yaml"

// DefaultPollInterval is how often the watch loop re-reads the document's
// modification time.
const DefaultPollInterval = time.Second

// Duration is a time.Duration that unmarshals from yaml strings like "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

type Config struct {
	Engine         string   `yaml:"engine"`
	BibTool        string   `yaml:"bibtool"`
	EngineTimeout  Duration `yaml:"engine-timeout"`
	BibTimeout     Duration `yaml:"bibtool-timeout"`
	MaxDiagnostics int      `yaml:"max-diagnostics"`
	PollInterval   Duration `yaml:"poll-interval"`
	AuxSuffixes    []string `yaml:"aux-suffixes"`
}

func Default() *Config {
	return &Config{
		Engine:         compile.DefaultEngine,
		BibTool:        compile.DefaultBibTool,
		EngineTimeout:  Duration(compile.DefaultEngineTimeout),
		BibTimeout:     Duration(compile.DefaultBibTimeout),
		MaxDiagnostics: compile.DefaultMaxDiagnostics,
		PollInterval:   Duration(DefaultPollInterval),
		AuxSuffixes:    compile.DefaultAuxSuffixes,
	}
}

// Load returns the configuration for dir: defaults, overlaid with
// texmk.yaml if present, then environment overrides.
func Load(dir string) (*Config, error) {
	cfg := Default()

	fn := filepath.Join(dir, FileName)
	if fs.FileExists(fn) {
		buf, err := os.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", fn, err)
		}
	}

	envFN := filepath.Join(dir, ".env")
	if fs.FileExists(envFN) {
		if err := godotenv.Load(envFN); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFN, err)
		}
	}
	if v := os.Getenv("TEXMK_ENGINE"); v != "" {
		cfg.Engine = v
	}
	if v := os.Getenv("TEXMK_BIBTOOL"); v != "" {
		cfg.BibTool = v
	}
	return cfg, nil
}

// Apply copies the configuration onto a runner.
func (c *Config) Apply(r *compile.Runner) {
	r.Engine = c.Engine
	r.BibTool = c.BibTool
	r.EngineTimeout = time.Duration(c.EngineTimeout)
	r.BibTimeout = time.Duration(c.BibTimeout)
	r.MaxDiagnostics = c.MaxDiagnostics
	r.AuxSuffixes = c.AuxSuffixes
}
