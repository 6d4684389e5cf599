package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/jscan/internal/constants"
	"github.com/pelletier/go-toml/v2"
)

// JscanTomlConfig represents the structure of .jscan.toml. Pointer fields
// tell an unset value apart from a zero one.
type JscanTomlConfig struct {
	Cluster JscanTomlClusterConfig `toml:"cluster"`
	Input   JscanTomlInputConfig   `toml:"input"`
	Output  JscanTomlOutputConfig  `toml:"output"`
}

type JscanTomlClusterConfig struct {
	SimilarityThreshold *float64 `toml:"similarity_threshold"`
	Workers             *int     `toml:"workers"`
	P                   *int     `toml:"p"`
	Q                   *int     `toml:"q"`
	MaxDepth            *int     `toml:"max_depth"`
}

type JscanTomlInputConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"`
}

type JscanTomlOutputConfig struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

// TomlConfigLoader discovers and loads .jscan.toml
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads the nearest .jscan.toml at or above startDir merged over
// the defaults. Without one the defaults are returned.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := FindConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile loads one .jscan.toml file merged over the defaults
func (l *TomlConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file JscanTomlConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config := DefaultConfig()
	l.merge(config, &file)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return config, nil
}

// FindConfigFile walks up the directory tree from startDir looking for .jscan.toml
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		configPath := filepath.Join(dir, constants.DefaultConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

func (l *TomlConfigLoader) merge(config *Config, file *JscanTomlConfig) {
	c := file.Cluster
	if c.SimilarityThreshold != nil {
		config.Cluster.SimilarityThreshold = *c.SimilarityThreshold
	}
	if c.Workers != nil {
		config.Cluster.Workers = *c.Workers
	}
	if c.P != nil {
		config.Cluster.P = *c.P
	}
	if c.Q != nil {
		config.Cluster.Q = *c.Q
	}
	if c.MaxDepth != nil {
		config.Cluster.MaxDepth = *c.MaxDepth
	}

	if file.Input.IncludePatterns != nil {
		config.Input.IncludePatterns = file.Input.IncludePatterns
	}
	if file.Input.ExcludePatterns != nil {
		config.Input.ExcludePatterns = file.Input.ExcludePatterns
	}
	if file.Input.Recursive != nil {
		config.Input.Recursive = *file.Input.Recursive
	}

	if file.Output.Format != "" {
		config.Output.Format = file.Output.Format
	}
	if file.Output.Path != "" {
		config.Output.Path = file.Output.Path
	}
}
