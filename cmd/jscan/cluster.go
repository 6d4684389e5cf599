package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/jscan/app"
	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/internal/config"
	"github.com/ludo-technologies/jscan/internal/constants"
	"github.com/ludo-technologies/jscan/internal/logging"
	"github.com/ludo-technologies/jscan/service"
)

// ClusterCommand handles the cluster CLI command
type ClusterCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string

	// Analysis configuration
	similarityThreshold float64
	workers             int
	p                   int
	q                   int
	maxDepth            int

	// Output options
	format     string
	outputPath string
	noProgress bool
}

// NewClusterCommand creates a new cluster command
func NewClusterCommand() *ClusterCommand {
	return &ClusterCommand{
		recursive:           true,
		similarityThreshold: constants.DefaultSimilarityThreshold,
		workers:             constants.DefaultMatrixWorkers,
		p:                   constants.DefaultPQGramP,
		q:                   constants.DefaultPQGramQ,
		maxDepth:            constants.DefaultPQGramDepth,
		format:              string(domain.OutputFormatText),
	}
}

// CreateCobraCommand creates the Cobra command for clustering
func (c *ClusterCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster [folders...]",
		Short: "Group structurally similar functions",
		Long: `Group JavaScript and TypeScript functions by structural similarity.

Every function found under the folders is compared with every other one.
Groups whose similarity is at least the threshold are reported whole; looser
groups are split into their members.

Examples:
  # Cluster the functions under src/
  jscan cluster src/

  # Only report near-identical structure
  jscan cluster -s 0.95 src/ lib/

  # Write a CommonJS data module for other tools
  jscan cluster --format js --output clusters.js src/`,
		RunE: c.runCluster,
	}

	// Input flags
	cmd.Flags().BoolVarP(&c.recursive, "recursive", "r", c.recursive,
		"Recursively analyze directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "",
		"Path to configuration file (default: nearest .jscan.toml)")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil,
		"Glob patterns of files to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"Glob patterns of files or directories to exclude")

	// Analysis flags
	cmd.Flags().Float64VarP(&c.similarityThreshold, "similarity-threshold", "s", c.similarityThreshold,
		"Minimum similarity for a group to be reported whole (0.0-1.0)")
	cmd.Flags().IntVar(&c.workers, "workers", c.workers,
		"Number of distance matrix workers")
	cmd.Flags().IntVar(&c.p, "pq-p", c.p, "pq-gram ancestor count")
	cmd.Flags().IntVar(&c.q, "pq-q", c.q, "pq-gram sibling window")
	cmd.Flags().IntVar(&c.maxDepth, "max-depth", c.maxDepth,
		"Depth at which syntax trees are cut off")

	// Output flags
	cmd.Flags().StringVarP(&c.format, "format", "f", c.format,
		"Output format: text, json, yaml, js")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false,
		"Disable the progress bar")

	// pq-gram shape is normally left at its defaults
	_ = cmd.Flags().MarkHidden("pq-p")
	_ = cmd.Flags().MarkHidden("pq-q")

	return cmd
}

// runCluster executes the cluster command
func (c *ClusterCommand) runCluster(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	logger := logging.New(cmd.ErrOrStderr(), verbose, quiet)

	request, err := c.createClusterRequest(cmd, args)
	if err != nil {
		return err
	}

	progress := service.NewProgressManager("Comparing functions")
	progress.SetWriter(cmd.ErrOrStderr())
	defer progress.Close()
	request.ShowProgress = !c.noProgress && !quiet && progress.IsInteractive()

	reader := service.NewFileReader()
	useCase, err := app.NewClusterUseCaseBuilder().
		WithService(service.NewClusterService(reader, progress, logger)).
		WithFileReader(reader).
		WithFormatter(service.NewClusterFormatter()).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create cluster use case: %w", err)
	}

	logger.Debug().
		Strs("paths", request.Paths).
		Float64("threshold", request.SimilarityThreshold).
		Int("workers", request.Workers).
		Msg("starting clustering")

	return useCase.Execute(cmd.Context(), *request)
}

// createClusterRequest loads the configuration (explicit file or nearest
// .jscan.toml) and applies the flags the user actually set on top.
func (c *ClusterCommand) createClusterRequest(cmd *cobra.Command, paths []string) (*domain.ClusterRequest, error) {
	loader := service.NewClusterConfigurationLoader()
	base, err := loader.LoadClusterConfig(c.configFile, paths[0])
	if err != nil {
		return nil, err
	}

	tracker := config.NewFlagTrackerFromFlagSet(cmd.Flags())

	format, err := domain.ParseOutputFormat(tracker.MergeString(string(base.OutputFormat), c.format, "format"))
	if err != nil {
		return nil, err
	}

	request := *base
	request.Paths = paths
	request.ConfigPath = c.configFile
	request.Recursive = tracker.MergeBool(base.Recursive, c.recursive, "recursive")
	request.IncludePatterns = tracker.MergeStringSlice(base.IncludePatterns, c.includePatterns, "include")
	request.ExcludePatterns = tracker.MergeStringSlice(base.ExcludePatterns, c.excludePatterns, "exclude")
	request.SimilarityThreshold = tracker.MergeFloat64(base.SimilarityThreshold, c.similarityThreshold, "similarity-threshold")
	request.Workers = tracker.MergeInt(base.Workers, c.workers, "workers")
	request.P = tracker.MergeInt(base.P, c.p, "pq-p")
	request.Q = tracker.MergeInt(base.Q, c.q, "pq-q")
	request.MaxDepth = tracker.MergeInt(base.MaxDepth, c.maxDepth, "max-depth")
	request.OutputFormat = format
	request.OutputPath = tracker.MergeString(base.OutputPath, c.outputPath, "output")
	request.OutputWriter = cmd.OutOrStdout()

	if err := request.Validate(); err != nil {
		return nil, err
	}
	return &request, nil
}

// NewClusterCmd creates and returns the cluster cobra command
func NewClusterCmd() *cobra.Command {
	return NewClusterCommand().CreateCobraCommand()
}
