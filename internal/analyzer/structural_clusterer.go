package analyzer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ClustererConfig holds the parameters of a clustering run
type ClustererConfig struct {
	PQGram              PQGramConfig
	Workers             int
	SimilarityThreshold float64
}

// ClusterResult is the outcome of a clustering run
type ClusterResult struct {
	Forest []ClusterTree
	Matrix *DistanceMatrix
	Root   *DendrogramNode
}

// StructuralClusterer runs matrix building, average linkage, tree building
// and pruning over a fixed snippet set.
type StructuralClusterer struct {
	config  ClustererConfig
	linkage *AverageLinkage
	builder *ClusterTreeBuilder
	matrix  *MatrixBuilder
	logger  zerolog.Logger
}

// NewStructuralClusterer creates a clusterer. Matrix options are passed to
// the underlying MatrixBuilder.
func NewStructuralClusterer(config ClustererConfig, renderer Renderer, logger zerolog.Logger, opts ...MatrixOption) *StructuralClusterer {
	return &StructuralClusterer{
		config:  config,
		linkage: NewAverageLinkage(),
		builder: NewClusterTreeBuilder(renderer),
		matrix:  NewMatrixBuilder(config.PQGram, config.Workers, opts...),
		logger:  logger,
	}
}

// Cluster groups the snippets into a pruned similarity forest
func (c *StructuralClusterer) Cluster(ctx context.Context, snippets []*CodeSnippet) (*ClusterResult, error) {
	if c.config.SimilarityThreshold < 0 || c.config.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("similarity threshold %v out of range [0,1]", c.config.SimilarityThreshold)
	}

	matrix, err := c.matrix.Build(ctx, snippets)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Int("snippets", len(snippets)).
		Float64("max_distance", matrix.MaxDistance).
		Msg("distance matrix built")

	root, err := c.linkage.Cluster(matrix)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Float64("max_height", MaxHeight(root)).Msg("dendrogram built")

	forest, err := c.builder.BuildForest(root, snippets, c.config.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	return &ClusterResult{
		Forest: forest,
		Matrix: matrix,
		Root:   root,
	}, nil
}
