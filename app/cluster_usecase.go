package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/jscan/domain"
)

// ClusterUseCase orchestrates structural clustering: file resolution,
// clustering, formatting and output.
type ClusterUseCase struct {
	service      domain.ClusterService
	fileReader   domain.FileReader
	formatter    domain.ClusterOutputFormatter
	configLoader domain.ClusterConfigurationLoader
	output       domain.ReportWriter
}

// NewClusterUseCase creates a new cluster use case
func NewClusterUseCase(
	service domain.ClusterService,
	fileReader domain.FileReader,
	formatter domain.ClusterOutputFormatter,
	configLoader domain.ClusterConfigurationLoader,
	output domain.ReportWriter,
) *ClusterUseCase {
	return &ClusterUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
	}
}

// Analyze clusters every function found under folders and returns the
// pruned forest. An empty folder list yields an empty forest. Settings other
// than the threshold come from a .jscan.toml near the first folder, if any.
func (uc *ClusterUseCase) Analyze(ctx context.Context, folders []string, threshold float64) ([]*domain.ClusterNode, error) {
	req := domain.DefaultClusterRequest()
	if uc.configLoader != nil {
		if len(folders) > 0 {
			loaded, err := uc.configLoader.LoadClusterConfig("", folders[0])
			if err != nil {
				return nil, err
			}
			req = loaded
		} else {
			req = uc.configLoader.GetDefaultClusterConfig()
		}
	}
	req.Paths = folders
	req.SimilarityThreshold = threshold

	response, err := uc.Run(ctx, *req)
	if err != nil {
		return nil, err
	}
	return response.Forest, nil
}

// Run validates the request, resolves its files and clusters them
func (uc *ClusterUseCase) Run(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	files, err := ResolveFilePaths(uc.fileReader, req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	return uc.service.ClusterFiles(ctx, files, &req)
}

// Execute runs the clustering and writes the formatted report
func (uc *ClusterUseCase) Execute(ctx context.Context, req domain.ClusterRequest) error {
	response, err := uc.Run(ctx, req)
	if err != nil {
		return err
	}

	writeFunc := func(w io.Writer) error {
		return uc.formatter.FormatClusterResponse(response, req.OutputFormat, w)
	}

	if uc.output != nil {
		return uc.output.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, writeFunc)
	}
	if !req.HasValidOutputWriter() {
		return domain.NewOutputError("no valid output writer specified", nil)
	}
	return writeFunc(req.OutputWriter)
}

// ClusterUseCaseBuilder provides a builder pattern for creating ClusterUseCase
type ClusterUseCaseBuilder struct {
	service      domain.ClusterService
	fileReader   domain.FileReader
	formatter    domain.ClusterOutputFormatter
	configLoader domain.ClusterConfigurationLoader
	output       domain.ReportWriter
}

// NewClusterUseCaseBuilder creates a new builder
func NewClusterUseCaseBuilder() *ClusterUseCaseBuilder {
	return &ClusterUseCaseBuilder{}
}

// WithService sets the cluster service
func (b *ClusterUseCaseBuilder) WithService(service domain.ClusterService) *ClusterUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *ClusterUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *ClusterUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *ClusterUseCaseBuilder) WithFormatter(formatter domain.ClusterOutputFormatter) *ClusterUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *ClusterUseCaseBuilder) WithConfigLoader(configLoader domain.ClusterConfigurationLoader) *ClusterUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *ClusterUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *ClusterUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the ClusterUseCase with the configured dependencies.
// The config loader and report writer are optional.
func (b *ClusterUseCaseBuilder) Build() (*ClusterUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("cluster service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	return NewClusterUseCase(
		b.service,
		b.fileReader,
		b.formatter,
		b.configLoader,
		b.output,
	), nil
}
