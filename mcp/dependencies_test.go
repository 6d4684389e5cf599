package mcp

import (
	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/internal/logging"
	"github.com/ludo-technologies/jscan/service"
)

func NewTestDependencies(fr domain.FileReader, configPath string) *Dependencies {
	return &Dependencies{
		fileReader:   fr,
		configLoader: service.NewClusterConfigurationLoader(),
		configPath:   configPath,
		logger:       logging.Nop(),
	}
}
