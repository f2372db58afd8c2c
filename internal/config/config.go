package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/bathymetrix/rudics/internal/airtime"
)

// EnvRoot names the environment variable holding the data root
const EnvRoot = "MERMAID"

// DefaultFileName is looked up inside the root when no config path is given
const DefaultFileName = "rudics.yaml"

// ErrRootUnset is returned when no data root was configured
var ErrRootUnset = errors.New(EnvRoot + " environment variable not set")

// Config holds everything needed to produce airtime reports
type Config struct {
	Root              string             `yaml:"root"`
	ProcessedDir      string             `yaml:"processed_dir"`
	FileSuffix        string             `yaml:"file_suffix"`
	ReportName        string             `yaml:"report_name"`
	SkipPrefix        string             `yaml:"skip_prefix"`
	Mode              airtime.Mode       `yaml:"mode"`
	DedupScope        airtime.DedupScope `yaml:"dedup_scope"`
	PairPolicy        airtime.PairPolicy `yaml:"pair_policy"`
	IncludeCompressed bool               `yaml:"include_compressed"`
	Workers           int                `yaml:"workers"`
}

// Default returns the configuration the float data layout expects
func Default() *Config {
	return &Config{
		ProcessedDir: "processed_everyone",
		FileSuffix:   "CYCLE.h",
		ReportName:   "rudics_minutes.txt",
		SkipPrefix:   ".",
		Mode:         airtime.ModePaired,
		DedupScope:   airtime.ScopeFile,
		PairPolicy:   airtime.PolicyHold,
		Workers:      1,
	}
}

// Load resolves the configuration from defaults, an optional YAML file and the
// environment, in that order. A non-empty root takes the place of $MERMAID.
// With an empty path, <root>/rudics.yaml is used when it exists.
func Load(path, root string) (*Config, error) {
	cfg := Default()
	if root == "" {
		root = os.Getenv(EnvRoot)
	}

	if path == "" && root != "" {
		candidate := filepath.Join(root, DefaultFileName)
		if FileExists(candidate) {
			path = candidate
		}
	}
	if path != "" {
		if err := LoadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if root != "" {
		cfg.Root = root
	}
	return cfg, nil
}

// LoadYAML loads a YAML file into the provided struct
func LoadYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate rejects unknown option values
func (c *Config) Validate() error {
	if err := c.ScanOptions().Validate(); err != nil {
		return err
	}
	if err := c.DedupScope.Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.FileSuffix == "" {
		return errors.New("file_suffix must not be empty")
	}
	if c.ReportName == "" {
		return errors.New("report_name must not be empty")
	}
	return nil
}

// RequireRoot fails with ErrRootUnset when no root is configured
func (c *Config) RequireRoot() error {
	if c.Root == "" {
		return ErrRootUnset
	}
	return nil
}

// GroupsDir is the directory whose subdirectories are the report groups
func (c *Config) GroupsDir() string {
	return filepath.Join(c.Root, c.ProcessedDir)
}

// ScanOptions returns the per-file scan options
func (c *Config) ScanOptions() airtime.Options {
	return airtime.Options{Mode: c.Mode, Policy: c.PairPolicy}
}

// EffectiveScope is the dedup scope actually applied. Legacy mode always
// deduplicates across the whole group.
func (c *Config) EffectiveScope() airtime.DedupScope {
	if c.Mode == airtime.ModeLegacy {
		return airtime.ScopeGroup
	}
	return c.DedupScope
}
