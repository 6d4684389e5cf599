package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/jscan/internal/constants"
	"github.com/spf13/viper"
)

// Config represents the main configuration structure
type Config struct {
	// Cluster holds the structural clustering parameters
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster" toml:"cluster"`

	// Input holds source discovery settings
	Input InputConfig `mapstructure:"input" yaml:"input" toml:"input"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`
}

// ClusterConfig holds configuration for structural clustering
type ClusterConfig struct {
	// SimilarityThreshold prunes the cluster tree: groups below it are split
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold" toml:"similarity_threshold"`

	// Workers is the number of distance matrix workers
	Workers int `mapstructure:"workers" yaml:"workers" toml:"workers"`

	// P and Q are the pq-gram stem and base lengths
	P int `mapstructure:"p" yaml:"p" toml:"p"`
	Q int `mapstructure:"q" yaml:"q" toml:"q"`

	// MaxDepth bounds the depth of the pq-gram profile
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth" toml:"max_depth"`
}

// InputConfig holds configuration for source discovery
type InputConfig struct {
	// IncludePatterns restricts discovery to matching files (doublestar syntax)
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns removes matching files and directories
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// Recursive controls whether to descend into subdirectories
	Recursive bool `mapstructure:"recursive" yaml:"recursive" toml:"recursive"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, js
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// Path writes the report to a file instead of stdout
	Path string `mapstructure:"path" yaml:"path" toml:"path,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Cluster: ClusterConfig{
			SimilarityThreshold: constants.DefaultSimilarityThreshold,
			Workers:             constants.DefaultMatrixWorkers,
			P:                   constants.DefaultPQGramP,
			Q:                   constants.DefaultPQGramQ,
			MaxDepth:            constants.DefaultPQGramDepth,
		},
		Input: InputConfig{
			IncludePatterns: []string{},
			ExcludePatterns: []string{},
			Recursive:       true,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from configPath. With an empty path a
// .jscan.toml is searched for from targetPath upwards; without one the
// defaults are returned.
func LoadConfig(configPath, targetPath string) (*Config, error) {
	if configPath == "" {
		return NewTomlConfigLoader().LoadConfig(startDirFor(targetPath))
	}

	config := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)
	if filepath.Base(configPath) == constants.DefaultConfigFileName {
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// startDirFor returns the directory discovery starts from
func startDirFor(targetPath string) string {
	if targetPath == "" {
		return "."
	}
	if info, err := os.Stat(targetPath); err == nil && !info.IsDir() {
		return filepath.Dir(targetPath)
	}
	return targetPath
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Cluster.SimilarityThreshold < 0 || c.Cluster.SimilarityThreshold > 1 {
		return fmt.Errorf("cluster.similarity_threshold must be between 0 and 1, got %v", c.Cluster.SimilarityThreshold)
	}

	if c.Cluster.Workers < 1 {
		return fmt.Errorf("cluster.workers must be >= 1, got %d", c.Cluster.Workers)
	}

	if c.Cluster.P < 1 || c.Cluster.Q < 1 {
		return fmt.Errorf("cluster.p and cluster.q must be >= 1, got p=%d q=%d", c.Cluster.P, c.Cluster.Q)
	}

	if c.Cluster.MaxDepth < 1 {
		return fmt.Errorf("cluster.max_depth must be >= 1, got %d", c.Cluster.MaxDepth)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"js":   true,
	}

	if !validFormats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, js", c.Output.Format)
	}

	return nil
}
