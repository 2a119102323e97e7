// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"slcsp/core/ingestion"
	"slcsp/core/output"
	"slcsp/internal/errors"
	"slcsp/internal/logging"
)

// EnvPrefix prefixes every environment override (SLCSP_OUTPUT_FORMAT=json).
const EnvPrefix = "SLCSP"

// FileName is the config file base name searched for when no path is given.
const FileName = ".slcsp"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// MetalLevel is the plan metal level whose rates are indexed
	MetalLevel string `json:"metal_level" yaml:"metal_level" mapstructure:"metal_level"`

	// Columns names the headers of the three input tables
	Columns ingestion.Columns `json:"columns" yaml:"columns" mapstructure:"columns"`

	// Input contains decoding configuration
	Input InputConfig `json:"input" yaml:"input" mapstructure:"input"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output" mapstructure:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// InputConfig contains input decoding settings
type InputConfig struct {
	// Delimiter is the single-character CSV field separator
	Delimiter string `json:"delimiter" yaml:"delimiter" mapstructure:"delimiter"`

	// LazyQuotes tolerates malformed quoting instead of failing the file
	LazyQuotes bool `json:"lazy_quotes" yaml:"lazy_quotes" mapstructure:"lazy_quotes"`

	// Sheet selects the XLSX sheet (default: first)
	Sheet string `json:"sheet" yaml:"sheet" mapstructure:"sheet"`
}

// DelimiterRune returns the delimiter as a rune, ',' when unset.
func (c InputConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the output format (csv, json, parquet)
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Path is the output file; empty or "-" means stdout
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version:    "1.0",
		MetalLevel: ingestion.DefaultMetalLevel,
		Columns:    ingestion.DefaultColumns(),
		Input: InputConfig{
			Delimiter:  ",",
			LazyQuotes: false,
		},
		Output: OutputConfig{
			Format: string(output.FormatCSV),
			Path:   output.Stdout,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads configuration from defaults, an optional file and the
// environment, in increasing priority. An empty path searches for
// .slcsp.{yaml,json,toml} in the working directory, then the home directory.
// A path that does not exist falls back to defaults.
func Load(path string) (*Config, error) {
	v := newViper()

	switch {
	case path == "":
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(errors.TypeConfig, "failed to read config file", err)
			}
		}

	case !exists(path):
		logging.Debug("config file not found, using defaults")

	case isHCL(path):
		if err := mergeHCL(v, path); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to read config file "+path, err)
		}

	default:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to read config file "+path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to decode configuration", err)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("version", d.Version)
	v.SetDefault("metal_level", d.MetalLevel)
	v.SetDefault("columns.plans.state", d.Columns.Plans.State)
	v.SetDefault("columns.plans.metal_level", d.Columns.Plans.MetalLevel)
	v.SetDefault("columns.plans.rate", d.Columns.Plans.Rate)
	v.SetDefault("columns.plans.rate_area", d.Columns.Plans.RateArea)
	v.SetDefault("columns.zips.zipcode", d.Columns.Zips.Zipcode)
	v.SetDefault("columns.zips.state", d.Columns.Zips.State)
	v.SetDefault("columns.zips.rate_area", d.Columns.Zips.RateArea)
	v.SetDefault("columns.targets.zipcode", d.Columns.Targets.Zipcode)
	v.SetDefault("input.delimiter", d.Input.Delimiter)
	v.SetDefault("input.lazy_quotes", d.Input.LazyQuotes)
	v.SetDefault("input.sheet", d.Input.Sheet)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)

	return v
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MetalLevel) == "" {
		return errors.Config("metal_level must not be empty")
	}

	if !output.Supported(c.Output.Format) {
		var names []string
		for _, f := range output.Formats() {
			names = append(names, string(f))
		}
		return errors.Newf(errors.TypeConfig, "unsupported output format %q (supported: %s)",
			c.Output.Format, strings.Join(names, ", "))
	}

	if d := c.Input.Delimiter; d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
			return errors.Newf(errors.TypeConfig, "invalid delimiter %q: must be a single character other than quote or newline", d)
		}
	}

	for source, names := range map[string][]string{
		ingestion.SourcePlans:   c.Columns.Required(ingestion.SourcePlans),
		ingestion.SourceZips:    c.Columns.Required(ingestion.SourceZips),
		ingestion.SourceTargets: c.Columns.Required(ingestion.SourceTargets),
	} {
		for _, name := range names {
			if strings.TrimSpace(name) == "" {
				return errors.Newf(errors.TypeConfig, "column names for %s must not be empty", source)
			}
		}
	}

	return nil
}

// Save saves configuration to a file. ".yaml" and ".yml" paths are written
// as YAML, anything else as JSON.
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to create config directory", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to encode configuration", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to write "+path, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
