package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 0.8, config.Cluster.SimilarityThreshold)
	assert.Equal(t, 20, config.Cluster.Workers)
	assert.Equal(t, 2, config.Cluster.P)
	assert.Equal(t, 3, config.Cluster.Q)
	assert.Equal(t, 10, config.Cluster.MaxDepth)
	assert.True(t, config.Input.Recursive)
	assert.Empty(t, config.Input.IncludePatterns)
	assert.Equal(t, "text", config.Output.Format)
	assert.NoError(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name          string
		modifyConfig  func(*Config)
		errorContains string
	}{
		{
			name:         "ValidConfig",
			modifyConfig: func(c *Config) {},
		},
		{
			name:         "ThresholdBounds",
			modifyConfig: func(c *Config) { c.Cluster.SimilarityThreshold = 0 },
		},
		{
			name:          "NegativeThreshold",
			modifyConfig:  func(c *Config) { c.Cluster.SimilarityThreshold = -0.1 },
			errorContains: "similarity_threshold",
		},
		{
			name:          "ThresholdAboveOne",
			modifyConfig:  func(c *Config) { c.Cluster.SimilarityThreshold = 1.01 },
			errorContains: "similarity_threshold",
		},
		{
			name:          "NoWorkers",
			modifyConfig:  func(c *Config) { c.Cluster.Workers = 0 },
			errorContains: "workers",
		},
		{
			name:          "ZeroQ",
			modifyConfig:  func(c *Config) { c.Cluster.Q = 0 },
			errorContains: "cluster.q",
		},
		{
			name:          "ZeroDepth",
			modifyConfig:  func(c *Config) { c.Cluster.MaxDepth = 0 },
			errorContains: "max_depth",
		},
		{
			name:          "UnknownFormat",
			modifyConfig:  func(c *Config) { c.Output.Format = "csv" },
			errorContains: "output.format",
		},
		{
			name:         "FormatIsCaseInsensitive",
			modifyConfig: func(c *Config) { c.Output.Format = "JSON" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modifyConfig(config)

			err := config.Validate()
			if tc.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jscan.yaml")
	content := `cluster:
  similarity_threshold: 0.65
  workers: 4
input:
  exclude_patterns:
    - "**/vendor/**"
output:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, 0.65, config.Cluster.SimilarityThreshold)
	assert.Equal(t, 4, config.Cluster.Workers)
	assert.Equal(t, 2, config.Cluster.P, "unset values keep their defaults")
	assert.Equal(t, []string{"**/vendor/**"}, config.Input.ExcludePatterns)
	assert.Equal(t, "json", config.Output.Format)
}

func TestLoadConfigExplicitToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jscan.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cluster]\nmax_depth = 6\n"), 0o644))

	config, err := LoadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, 6, config.Cluster.MaxDepth)
	assert.Equal(t, 0.8, config.Cluster.SimilarityThreshold)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jscan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cluster": {"similarity_threshold": 3}}`), 0o644))

	_, err := LoadConfig(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

func TestLoadConfigDiscoversTomlFromTarget(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".jscan.toml"), []byte("[cluster]\nworkers = 3\n"), 0o644))

	file := filepath.Join(src, "index.js")
	require.NoError(t, os.WriteFile(file, []byte("function f() {}\n"), 0o644))

	for _, target := range []string{src, file} {
		config, err := LoadConfig("", target)
		require.NoError(t, err)
		assert.Equal(t, 3, config.Cluster.Workers, "target=%s", target)
	}
}

func TestGenerateDefaultConfigTOML(t *testing.T) {
	content, err := GenerateDefaultConfigTOML()
	require.NoError(t, err)
	assert.Contains(t, content, "[cluster]")
	assert.Contains(t, content, "similarity_threshold = 0.8")
	assert.Contains(t, content, "workers = 20")

	dir := t.TempDir()
	path := filepath.Join(dir, ".jscan.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := NewTomlConfigLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config, "the generated file describes the defaults")
}
