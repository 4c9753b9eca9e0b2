package config

import (
	"errors"
	"fmt"
	"strings"

	"genelens/internal/engine"

	"github.com/spf13/viper"
)

// Config is the effective service configuration.
type Config struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	Port      int    `mapstructure:"port" yaml:"port"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"` // console|json

	IdentifierColumn  string `mapstructure:"identifier_column" yaml:"identifier_column"`
	DisplayNameColumn string `mapstructure:"display_name_column" yaml:"display_name_column"`
	// Synonyms overrides the keyword list per field, e.g. {"fold_change": ["log2fc"]}.
	Synonyms         map[string][]string `mapstructure:"synonyms" yaml:"synonyms"`
	ComparisonLabels []string            `mapstructure:"comparison_labels" yaml:"comparison_labels"`

	SignificanceThreshold float64  `mapstructure:"significance_threshold" yaml:"significance_threshold"`
	OverviewTop           int      `mapstructure:"overview_top" yaml:"overview_top"`
	CORSOrigins           []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (GENELENS_*) > config file > defaults. Flags are applied by the caller.
// With an empty cfgFile, ./genelens.yaml is read if present.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GENELENS")
	v.AutomaticEnv()

	defaults := engine.DefaultOptions()
	v.SetDefault("data_path", "static/data/Differential_Expression_cleaned.csv")
	v.SetDefault("port", 4422)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("identifier_column", defaults.IdentifierColumn)
	v.SetDefault("display_name_column", defaults.DisplayNameColumn)
	v.SetDefault("synonyms", map[string][]string{})
	v.SetDefault("comparison_labels", defaults.ComparisonLabels[:])
	v.SetDefault("significance_threshold", defaults.SignificanceThreshold)
	v.SetDefault("overview_top", defaults.OverviewTop)
	v.SetDefault("cors_origins", []string{"*"})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("genelens")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail later at load time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("config: data_path is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if len(c.ComparisonLabels) != 2 {
		return fmt.Errorf("config: comparison_labels needs exactly 2 entries, got %d", len(c.ComparisonLabels))
	}
	if c.SignificanceThreshold <= 0 || c.SignificanceThreshold > 1 {
		return fmt.Errorf("config: significance_threshold must be in (0, 1], got %v", c.SignificanceThreshold)
	}
	if c.OverviewTop < 0 {
		return fmt.Errorf("config: overview_top must not be negative, got %d", c.OverviewTop)
	}
	_, err := c.synonyms()
	return err
}

func (c *Config) synonyms() (map[engine.Field][]string, error) {
	out := engine.DefaultSynonyms()
	known := make(map[engine.Field]bool, len(engine.Fields))
	for _, f := range engine.Fields {
		known[f] = true
	}
	for name, words := range c.Synonyms {
		f := engine.Field(strings.ToLower(strings.TrimSpace(name)))
		if !known[f] {
			return nil, fmt.Errorf("config: unknown synonym field %q", name)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("config: synonyms for %q are empty", name)
		}
		out[f] = words
	}
	return out, nil
}

// EngineOptions translates the config into dataset options.
func (c *Config) EngineOptions() (engine.Options, error) {
	syn, err := c.synonyms()
	if err != nil {
		return engine.Options{}, err
	}
	opts := engine.DefaultOptions()
	opts.IdentifierColumn = c.IdentifierColumn
	opts.DisplayNameColumn = c.DisplayNameColumn
	opts.Synonyms = syn
	if len(c.ComparisonLabels) == 2 {
		opts.ComparisonLabels = [2]string{c.ComparisonLabels[0], c.ComparisonLabels[1]}
	}
	opts.SignificanceThreshold = c.SignificanceThreshold
	opts.OverviewTop = c.OverviewTop
	return opts, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
