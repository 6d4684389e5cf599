package mcp

import (
	"github.com/ludo-technologies/jscan/app"
	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/service"
	"github.com/rs/zerolog"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader   domain.FileReader
	configLoader domain.ClusterConfigurationLoader
	configPath   string
	logger       zerolog.Logger
}

// NewDependencies constructs the dependency set. An empty configPath makes
// every call discover the .jscan.toml nearest to its first path.
func NewDependencies(configPath string, logger zerolog.Logger) *Dependencies {
	return &Dependencies{
		fileReader:   service.NewFileReader(),
		configLoader: service.NewClusterConfigurationLoader(),
		configPath:   configPath,
		logger:       logger,
	}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// LoadRequest loads the cluster settings that apply to targetPath
func (d *Dependencies) LoadRequest(targetPath string) (*domain.ClusterRequest, error) {
	return d.configLoader.LoadClusterConfig(d.configPath, targetPath)
}

// BuildClusterUseCase assembles a fresh ClusterUseCase. Progress bars are
// never drawn since stdout carries the JSON-RPC stream.
func (d *Dependencies) BuildClusterUseCase() (*app.ClusterUseCase, error) {
	return app.NewClusterUseCaseBuilder().
		WithService(service.NewClusterService(d.fileReader, nil, d.logger)).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewClusterFormatter()).
		WithConfigLoader(d.configLoader).
		Build()
}
