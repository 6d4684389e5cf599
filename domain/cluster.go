package domain

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/jscan/internal/constants"
)

// Position is a location in a source file. Lines are 1-based, columns 0-based.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns string representation of Position
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SnippetRef is the serializable form of an extracted function
type SnippetRef struct {
	Name          string   `json:"name" yaml:"name"`
	Code          string   `json:"code" yaml:"code"`
	FilePath      string   `json:"file_path" yaml:"file_path"`
	StartPosition Position `json:"start_position" yaml:"start_position"`
	EndPosition   Position `json:"end_position" yaml:"end_position"`
}

// Location returns file:line:col of the snippet start
func (s *SnippetRef) Location() string {
	return fmt.Sprintf("%s:%s", s.FilePath, s.StartPosition)
}

// Cluster node kinds
const (
	ClusterKindGroup   = "group"
	ClusterKindSnippet = "snippet"
)

// ClusterNode is one node of the similarity forest. A node either wraps a
// single snippet (Snippet != nil) or groups structurally similar members.
type ClusterNode struct {
	ID             string         `json:"id" yaml:"id"`
	Kind           string         `json:"kind" yaml:"kind"`
	Size           int            `json:"size" yaml:"size"`
	Similarity     float64        `json:"similarity" yaml:"similarity"`
	BelowThreshold bool           `json:"is_below_threshold,omitempty" yaml:"is_below_threshold,omitempty"`
	Snippet        *SnippetRef    `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`
	Members        []*ClusterNode `json:"members,omitempty" yaml:"members,omitempty"`
}

// IsLeaf reports whether the node wraps a single snippet
func (n *ClusterNode) IsLeaf() bool {
	return n.Snippet != nil
}

// Snippets returns every snippet under the node in member order
func (n *ClusterNode) Snippets() []*SnippetRef {
	if n.IsLeaf() {
		return []*SnippetRef{n.Snippet}
	}
	var out []*SnippetRef
	for _, m := range n.Members {
		out = append(out, m.Snippets()...)
	}
	return out
}

// ClusterStatistics summarizes a clustering run
type ClusterStatistics struct {
	FilesAnalyzed    int     `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSkipped     int     `json:"files_skipped" yaml:"files_skipped"`
	FunctionsFound   int     `json:"functions_found" yaml:"functions_found"`
	Groups           int     `json:"groups" yaml:"groups"`
	Singletons       int     `json:"singletons" yaml:"singletons"`
	LargestGroupSize int     `json:"largest_group_size" yaml:"largest_group_size"`
	MaxDistance      float64 `json:"max_distance" yaml:"max_distance"`
	Threshold        float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
}

// ClusterRequest represents a request for structural clustering
type ClusterRequest struct {
	// Input parameters
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Analysis configuration
	SimilarityThreshold float64 `json:"similarity_threshold"`
	P                   int     `json:"p"`
	Q                   int     `json:"q"`
	MaxDepth            int     `json:"max_depth"`
	Workers             int     `json:"workers"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
	ShowProgress bool         `json:"show_progress"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// ClusterResponse represents the response from a clustering run
type ClusterResponse struct {
	Forest     []*ClusterNode     `json:"clusters" yaml:"clusters"`
	Statistics *ClusterStatistics `json:"statistics" yaml:"statistics"`

	// Files that could not be parsed; they were skipped
	ParseErrors []string `json:"parse_errors,omitempty" yaml:"parse_errors,omitempty"`

	// Metadata
	Duration    int64  `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
	Success     bool   `json:"success" yaml:"success"`
}

// ClusterService defines the interface for clustering services
type ClusterService interface {
	// Cluster discovers, parses and clusters every function under req.Paths
	Cluster(ctx context.Context, req *ClusterRequest) (*ClusterResponse, error)

	// ClusterFiles clusters the functions of an explicit file list
	ClusterFiles(ctx context.Context, filePaths []string, req *ClusterRequest) (*ClusterResponse, error)
}

// ClusterOutputFormatter defines the interface for formatting clustering results
type ClusterOutputFormatter interface {
	// FormatClusterResponse writes the response in the given format
	FormatClusterResponse(response *ClusterResponse, format OutputFormat, writer io.Writer) error
}

// ClusterConfigurationLoader defines the interface for loading clustering configuration
type ClusterConfigurationLoader interface {
	// LoadClusterConfig loads configuration from configPath, or discovers one near targetPath
	LoadClusterConfig(configPath, targetPath string) (*ClusterRequest, error)

	// GetDefaultClusterConfig returns the default configuration
	GetDefaultClusterConfig() *ClusterRequest
}

// Validate validates a cluster request. An empty path list is valid and
// produces an empty forest.
func (req *ClusterRequest) Validate() error {
	if req.SimilarityThreshold < 0.0 || req.SimilarityThreshold > 1.0 {
		return NewValidationError("similarity_threshold must be between 0.0 and 1.0")
	}

	if req.P < 1 {
		return NewValidationError("p must be >= 1")
	}

	if req.Q < 1 {
		return NewValidationError("q must be >= 1")
	}

	if req.MaxDepth < 1 {
		return NewValidationError("max_depth must be >= 1")
	}

	if req.Workers < 1 {
		return NewValidationError("workers must be >= 1")
	}

	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *ClusterRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// DefaultClusterRequest returns a default cluster request
func DefaultClusterRequest() *ClusterRequest {
	return &ClusterRequest{
		Paths:               []string{},
		Recursive:           true,
		IncludePatterns:     []string{},
		ExcludePatterns:     []string{},
		SimilarityThreshold: constants.DefaultSimilarityThreshold,
		P:                   constants.DefaultPQGramP,
		Q:                   constants.DefaultPQGramQ,
		MaxDepth:            constants.DefaultPQGramDepth,
		Workers:             constants.DefaultMatrixWorkers,
		OutputFormat:        OutputFormatText,
	}
}

// NewClusterStatistics builds statistics for a pruned forest
func NewClusterStatistics(forest []*ClusterNode, threshold float64) *ClusterStatistics {
	stats := &ClusterStatistics{Threshold: threshold}
	for _, node := range forest {
		if node.IsLeaf() {
			stats.Singletons++
			continue
		}
		stats.Groups++
		if node.Size > stats.LargestGroupSize {
			stats.LargestGroupSize = node.Size
		}
	}
	return stats
}
