package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(name string) *ClusterNode {
	return &ClusterNode{
		ID:      name,
		Kind:    ClusterKindSnippet,
		Size:    1,
		Snippet: &SnippetRef{Name: name, FilePath: name + ".js", StartPosition: Position{Line: 3, Column: 2}},
	}
}

func TestClusterRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ClusterRequest)
		wantErr bool
	}{
		{"defaults", func(r *ClusterRequest) {}, false},
		{"threshold zero", func(r *ClusterRequest) { r.SimilarityThreshold = 0 }, false},
		{"threshold one", func(r *ClusterRequest) { r.SimilarityThreshold = 1 }, false},
		{"threshold negative", func(r *ClusterRequest) { r.SimilarityThreshold = -0.1 }, true},
		{"threshold above one", func(r *ClusterRequest) { r.SimilarityThreshold = 1.1 }, true},
		{"p zero", func(r *ClusterRequest) { r.P = 0 }, true},
		{"q zero", func(r *ClusterRequest) { r.Q = 0 }, true},
		{"depth zero", func(r *ClusterRequest) { r.MaxDepth = 0 }, true},
		{"no workers", func(r *ClusterRequest) { r.Workers = 0 }, true},
		{"no paths", func(r *ClusterRequest) { r.Paths = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultClusterRequest()
			tt.mutate(req)
			err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, HasCode(err, ErrCodeInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultClusterRequest(t *testing.T) {
	req := DefaultClusterRequest()
	assert.Equal(t, 0.8, req.SimilarityThreshold)
	assert.Equal(t, 2, req.P)
	assert.Equal(t, 3, req.Q)
	assert.Equal(t, 10, req.MaxDepth)
	assert.Equal(t, 20, req.Workers)
	assert.True(t, req.Recursive)
	assert.Equal(t, OutputFormatText, req.OutputFormat)
	assert.False(t, req.HasValidOutputWriter())
}

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]OutputFormat{
		"":           OutputFormatText,
		"text":       OutputFormatText,
		"JSON":       OutputFormatJSON,
		"yml":        OutputFormatYAML,
		" yaml ":     OutputFormatYAML,
		"js":         OutputFormatJS,
		"javascript": OutputFormatJS,
	}
	for input, want := range tests {
		got, err := ParseOutputFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseOutputFormat("csv")
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeUnsupportedFormat))
}

func TestClusterNodeSnippets(t *testing.T) {
	inner := &ClusterNode{Kind: ClusterKindGroup, Size: 2, Members: []*ClusterNode{leaf("b"), leaf("c")}}
	root := &ClusterNode{Kind: ClusterKindGroup, Size: 3, Members: []*ClusterNode{leaf("a"), inner}}

	var names []string
	for _, s := range root.Snippets() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.False(t, root.IsLeaf())
	assert.True(t, root.Members[0].IsLeaf())
	assert.Equal(t, "a.js:3:2", root.Members[0].Snippet.Location())
}

func TestNewClusterStatistics(t *testing.T) {
	forest := []*ClusterNode{
		{Kind: ClusterKindGroup, Size: 3, Members: []*ClusterNode{leaf("a"), leaf("b"), leaf("c")}},
		{Kind: ClusterKindGroup, Size: 2, Members: []*ClusterNode{leaf("d"), leaf("e")}},
		leaf("f"),
	}
	stats := NewClusterStatistics(forest, 0.7)
	assert.Equal(t, 2, stats.Groups)
	assert.Equal(t, 1, stats.Singletons)
	assert.Equal(t, 3, stats.LargestGroupSize)
	assert.Equal(t, 0.7, stats.Threshold)

	empty := NewClusterStatistics(nil, 0.8)
	assert.Zero(t, empty.Groups)
	assert.Zero(t, empty.Singletons)
}

func TestWorkerErrorDistinctFromDistanceError(t *testing.T) {
	cause := errors.New("boom")
	werr := &WorkerError{WorkerID: 4, RowStart: 10, RowEnd: 12, Status: "panic", Cause: cause}
	wrapped := fmt.Errorf("matrix: %w", NewWorkerFailedError(werr))

	assert.True(t, HasCode(wrapped, ErrCodeWorkerFailed))
	assert.False(t, HasCode(wrapped, ErrCodeDistanceError))
	assert.ErrorIs(t, wrapped, cause)

	var got *WorkerError
	require.ErrorAs(t, wrapped, &got)
	assert.Equal(t, 4, got.WorkerID)
	assert.Contains(t, got.Error(), `worker 4 (rows 10-12) exited with status "panic": boom`)

	distErr := NewDistanceError(2, cause)
	assert.True(t, HasCode(distErr, ErrCodeDistanceError))
	assert.False(t, errors.As(distErr, &got))
}

func TestHasCodeNested(t *testing.T) {
	inner := NewParseError("a.js", errors.New("syntax"))
	outer := NewAnalysisError("analysis failed", inner)
	assert.True(t, HasCode(outer, ErrCodeAnalysisError))
	assert.True(t, HasCode(outer, ErrCodeParseError))
	assert.False(t, HasCode(outer, ErrCodeConfigError))
	assert.False(t, HasCode(nil, ErrCodeConfigError))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeConfigError))
}
