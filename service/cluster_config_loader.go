package service

import (
	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/internal/config"
)

// ClusterConfigurationLoader implements the domain.ClusterConfigurationLoader interface
type ClusterConfigurationLoader struct{}

// NewClusterConfigurationLoader creates a new cluster configuration loader
func NewClusterConfigurationLoader() *ClusterConfigurationLoader {
	return &ClusterConfigurationLoader{}
}

// LoadClusterConfig loads configPath when given, otherwise discovers a
// .jscan.toml walking up from targetPath.
func (c *ClusterConfigurationLoader) LoadClusterConfig(configPath, targetPath string) (*domain.ClusterRequest, error) {
	cfg, err := config.LoadConfig(configPath, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return c.configToClusterRequest(cfg)
}

// GetDefaultClusterConfig returns the built-in defaults
func (c *ClusterConfigurationLoader) GetDefaultClusterConfig() *domain.ClusterRequest {
	req, err := c.configToClusterRequest(config.DefaultConfig())
	if err != nil {
		return domain.DefaultClusterRequest()
	}
	return req
}

func (c *ClusterConfigurationLoader) configToClusterRequest(cfg *config.Config) (*domain.ClusterRequest, error) {
	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	req := domain.DefaultClusterRequest()
	req.SimilarityThreshold = cfg.Cluster.SimilarityThreshold
	req.Workers = cfg.Cluster.Workers
	req.P = cfg.Cluster.P
	req.Q = cfg.Cluster.Q
	req.MaxDepth = cfg.Cluster.MaxDepth
	req.Recursive = cfg.Input.Recursive
	req.IncludePatterns = append([]string{}, cfg.Input.IncludePatterns...)
	req.ExcludePatterns = append([]string{}, cfg.Input.ExcludePatterns...)
	req.OutputFormat = format
	req.OutputPath = cfg.Output.Path
	return req, nil
}
