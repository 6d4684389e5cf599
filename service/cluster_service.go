package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/internal/analyzer"
	"github.com/ludo-technologies/jscan/internal/parser"
	"github.com/ludo-technologies/jscan/internal/version"
	"github.com/rs/zerolog"
)

// ClusterServiceImpl implements the domain.ClusterService interface
type ClusterServiceImpl struct {
	fileReader domain.FileReader
	progress   domain.ProgressManager
	logger     zerolog.Logger
	converter  *analyzer.TreeConverter
}

// NewClusterService creates a new cluster service.
// progress can be nil; the service then runs without a progress bar.
func NewClusterService(fileReader domain.FileReader, progress domain.ProgressManager, logger zerolog.Logger) *ClusterServiceImpl {
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	return &ClusterServiceImpl{
		fileReader: fileReader,
		progress:   progress,
		logger:     logger,
		converter:  analyzer.NewTreeConverter(),
	}
}

// Cluster discovers the source files under req.Paths and clusters their functions
func (s *ClusterServiceImpl) Cluster(ctx context.Context, req *domain.ClusterRequest) (*domain.ClusterResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("cluster request cannot be nil", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	files, err := s.fileReader.CollectSourceFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("files", len(files)).Strs("paths", req.Paths).Msg("collected source files")

	return s.ClusterFiles(ctx, files, req)
}

// ClusterFiles clusters the functions found in an explicit list of files.
// Files that fail to parse are skipped and reported in ParseErrors.
func (s *ClusterServiceImpl) ClusterFiles(ctx context.Context, filePaths []string, req *domain.ClusterRequest) (*domain.ClusterResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("cluster request cannot be nil", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	snippets, parseErrors, err := s.extractSnippets(ctx, filePaths)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("functions", len(snippets)).Msg("extracted functions")

	result, err := s.runClusterer(ctx, snippets, req)
	if err != nil {
		return nil, err
	}

	forest := make([]*domain.ClusterNode, 0, len(result.Forest))
	for _, tree := range result.Forest {
		forest = append(forest, toClusterNode(tree))
	}

	stats := domain.NewClusterStatistics(forest, req.SimilarityThreshold)
	stats.FilesAnalyzed = len(filePaths) - len(parseErrors)
	stats.FilesSkipped = len(parseErrors)
	stats.FunctionsFound = len(snippets)
	if result.Matrix != nil {
		stats.MaxDistance = result.Matrix.MaxDistance
	}

	s.logger.Info().
		Int("functions", stats.FunctionsFound).
		Int("groups", stats.Groups).
		Int("singletons", stats.Singletons).
		Msg("clustering complete")

	return &domain.ClusterResponse{
		Forest:      forest,
		Statistics:  stats,
		ParseErrors: parseErrors,
		Duration:    time.Since(startTime).Milliseconds(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Success:     true,
	}, nil
}

// extractSnippets parses every file and turns each function into a snippet.
// Snippet ids follow file order, then source order within a file.
func (s *ClusterServiceImpl) extractSnippets(ctx context.Context, filePaths []string) ([]*analyzer.CodeSnippet, []string, error) {
	var snippets []*analyzer.CodeSnippet
	var parseErrors []string

	parsers := make(map[parser.Language]*parser.Parser)
	normalizers := make(map[parser.Language]*parser.Normalizer)
	defer func() {
		for _, p := range parsers {
			p.Close()
		}
	}()

	for _, path := range filePaths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		lang, ok := parser.LanguageForPath(path)
		if !ok {
			s.logger.Debug().Str("file", path).Msg("skipping unsupported file")
			continue
		}
		p, ok := parsers[lang]
		if !ok {
			p = parser.New(lang)
			parsers[lang] = p
			normalizers[lang] = parser.NewNormalizer(p)
		}

		content, err := s.fileReader.ReadFile(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", path).Msg("failed to read file, skipping")
			parseErrors = append(parseErrors, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		result, err := p.Parse(ctx, content)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			if !errors.Is(err, parser.ErrSyntax) {
				err = domain.NewParseError(path, err)
			}
			s.logger.Warn().Err(err).Str("file", path).Msg("failed to parse file, skipping")
			parseErrors = append(parseErrors, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		normalizer := normalizers[lang]
		for _, fn := range parser.ExtractFunctions(result) {
			snippets = append(snippets, &analyzer.CodeSnippet{
				ID:             len(snippets),
				Names:          []string{fn.Name},
				SourceText:     fn.Text,
				NormalizedText: normalizer.Normalize(ctx, fn.Text),
				FilePath:       path,
				Language:       lang.String(),
				StartPosition:  domain.Position{Line: fn.Start.Line, Column: fn.Start.Column},
				EndPosition:    domain.Position{Line: fn.End.Line, Column: fn.End.Column},
				Tree:           s.converter.Convert(fn.Node),
			})
		}
	}

	return snippets, parseErrors, nil
}

func (s *ClusterServiceImpl) runClusterer(ctx context.Context, snippets []*analyzer.CodeSnippet, req *domain.ClusterRequest) (*analyzer.ClusterResult, error) {
	config := analyzer.ClustererConfig{
		PQGram: analyzer.PQGramConfig{
			P:     req.P,
			Q:     req.Q,
			Depth: req.MaxDepth,
		},
		Workers:             req.Workers,
		SimilarityThreshold: req.SimilarityThreshold,
	}

	var opts []analyzer.MatrixOption
	if req.ShowProgress && len(snippets) > 1 {
		s.progress.Initialize(len(snippets))
		s.progress.Start()
		opts = append(opts, analyzer.WithRowProgress(s.progress.Update))
	}

	clusterer := analyzer.NewStructuralClusterer(config, analyzer.TextRenderer, s.logger, opts...)
	result, err := clusterer.Cluster(ctx, snippets)
	if req.ShowProgress && len(snippets) > 1 {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// toClusterNode converts a pruned cluster tree into its serializable form
func toClusterNode(tree analyzer.ClusterTree) *domain.ClusterNode {
	switch node := tree.(type) {
	case *analyzer.ClusterLeaf:
		return &domain.ClusterNode{
			ID:         node.ID,
			Kind:       domain.ClusterKindSnippet,
			Size:       1,
			Similarity: 1,
			Snippet:    node.Snippet.ToRef(node.Code),
		}
	case *analyzer.ClusterGroup:
		members := make([]*domain.ClusterNode, 0, len(node.Members))
		for _, m := range node.Members {
			members = append(members, toClusterNode(m))
		}
		return &domain.ClusterNode{
			ID:             node.ID,
			Kind:           domain.ClusterKindGroup,
			Size:           node.Size,
			Similarity:     node.Similarity,
			BelowThreshold: node.BelowThreshold,
			Members:        members,
		}
	}
	return nil
}
