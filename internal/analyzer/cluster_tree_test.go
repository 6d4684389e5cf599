package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name      string
		height    float64
		maxHeight float64
		want      float64
	}{
		{"root", 0.8, 0.8, 0},
		{"zero height", 0, 0.8, 1},
		{"halfway", 0.4, 0.8, 0.5},
		{"all merges at zero", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.height, tt.maxHeight), 1e-12)
		})
	}
}

func buildTree(t *testing.T, snippets []*CodeSnippet, threshold float64) (ClusterTree, *DendrogramNode) {
	t.Helper()
	m, err := NewMatrixBuilder(DefaultPQGramConfig(), 4).Build(context.Background(), snippets)
	require.NoError(t, err)
	root, err := NewAverageLinkage().Cluster(m)
	require.NoError(t, err)
	tree, err := NewClusterTreeBuilder(nil).Build(root, snippets, MaxHeight(root), threshold)
	require.NoError(t, err)
	return tree, root
}

func distinctSnippets() []*CodeSnippet {
	return snippetsFor(returnIdentity(), ifWithoutElse(), arrowIncrement(), classWithMethod(), loopSum())
}

func TestClusterTreeBuildMirrorsDendrogram(t *testing.T) {
	snippets := distinctSnippets()
	tree, root := buildTree(t, snippets, 0.5)

	group, ok := tree.(*ClusterGroup)
	require.True(t, ok)
	assert.Equal(t, len(snippets), group.Size)
	assert.Equal(t, 0.0, group.Similarity, "the root merges at the maximum height")
	assert.False(t, group.BelowThreshold, "the root is never flagged")
	assert.Len(t, group.Members, 2)

	var ids []int
	for _, leaf := range Leaves(tree) {
		ids = append(ids, leaf.Snippet.ID)
	}
	assert.Equal(t, root.LeafIndices(), ids)
}

func TestClusterTreeFlagsGroupsBelowThreshold(t *testing.T) {
	tree, _ := buildTree(t, distinctSnippets(), 1)

	var walk func(node ClusterTree, isRoot bool)
	walk = func(node ClusterTree, isRoot bool) {
		g, ok := node.(*ClusterGroup)
		if !ok {
			return
		}
		assert.Equal(t, !isRoot && g.Similarity < 1, g.BelowThreshold)
		for _, m := range g.Members {
			walk(m, false)
		}
	}
	walk(tree, true)
}

func TestClusterTreeBuildUnknownLeaf(t *testing.T) {
	root := NewDendrogramMerge(2, NewDendrogramLeaf(0), NewDendrogramLeaf(5), 0.3)
	_, err := NewClusterTreeBuilder(nil).Build(root, snippetsFor(returnIdentity(), loopSum()), 0.3, 0)
	assert.Error(t, err)
}

func TestClusterTreeBuildNilRoot(t *testing.T) {
	tree, err := NewClusterTreeBuilder(nil).Build(nil, nil, 0, 0.5)
	require.NoError(t, err)
	assert.Nil(t, tree)
	assert.Empty(t, Prune(tree, 0.5))
}

func TestBuildForestThresholdZeroKeepsOneGroup(t *testing.T) {
	snippets := distinctSnippets()
	m, err := NewMatrixBuilder(DefaultPQGramConfig(), 4).Build(context.Background(), snippets)
	require.NoError(t, err)
	root, err := NewAverageLinkage().Cluster(m)
	require.NoError(t, err)

	forest, err := NewClusterTreeBuilder(nil).BuildForest(root, snippets, 0)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 5, forest[0].SnippetCount())
}

func TestBuildForestThresholdOneKeepsExactDuplicates(t *testing.T) {
	snippets := snippetsFor(returnIdentity(), ifWithoutElse(), returnIdentity(), classWithMethod(), loopSum())
	m, err := NewMatrixBuilder(DefaultPQGramConfig(), 4).Build(context.Background(), snippets)
	require.NoError(t, err)
	root, err := NewAverageLinkage().Cluster(m)
	require.NoError(t, err)

	forest, err := NewClusterTreeBuilder(nil).BuildForest(root, snippets, 1)
	require.NoError(t, err)
	require.Len(t, forest, 4)

	var groups []*ClusterGroup
	singletons := 0
	for _, tree := range forest {
		switch n := tree.(type) {
		case *ClusterGroup:
			groups = append(groups, n)
		case *ClusterLeaf:
			singletons++
		}
	}
	require.Len(t, groups, 1)
	assert.Equal(t, 3, singletons)
	assert.Equal(t, 2, groups[0].Size)
	assert.Equal(t, 1.0, groups[0].Similarity)

	var ids []int
	for _, leaf := range Leaves(groups[0]) {
		ids = append(ids, leaf.Snippet.ID)
	}
	assert.ElementsMatch(t, []int{0, 2}, ids)
}

func TestBuildForestAllIdentical(t *testing.T) {
	snippets := snippetsFor(returnIdentity(), returnIdentity(), returnIdentity())
	m, err := NewMatrixBuilder(DefaultPQGramConfig(), 2).Build(context.Background(), snippets)
	require.NoError(t, err)
	root, err := NewAverageLinkage().Cluster(m)
	require.NoError(t, err)

	forest, err := NewClusterTreeBuilder(nil).BuildForest(root, snippets, 1)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	group := forest[0].(*ClusterGroup)
	assert.Equal(t, 1.0, group.Similarity)
	assert.Equal(t, 3, group.Size)
}

func TestPruneIsIdempotent(t *testing.T) {
	tree, _ := buildTree(t, distinctSnippets(), 0.4)

	for _, threshold := range []float64{0, 0.25, 0.4, 0.75, 1} {
		once := Prune(tree, threshold)
		twice := PruneForest(once, threshold)
		assert.Equal(t, once, twice, "threshold=%v", threshold)
	}
}

func TestPruneIsMonotone(t *testing.T) {
	tree, _ := buildTree(t, distinctSnippets(), 0)

	previous := 0
	for _, threshold := range []float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1} {
		forest := Prune(tree, threshold)
		assert.GreaterOrEqual(t, len(forest), previous, "threshold=%v", threshold)
		previous = len(forest)

		covered := 0
		for _, node := range forest {
			covered += node.SnippetCount()
			if g, ok := node.(*ClusterGroup); ok {
				assert.GreaterOrEqual(t, g.Similarity, threshold)
			}
		}
		assert.Equal(t, 5, covered, "every snippet appears exactly once")
	}
}

func TestRenderFillsLeafCode(t *testing.T) {
	snippets := distinctSnippets()
	snippets[0].NormalizedText = "function f0() {}"
	tree, _ := buildTree(t, snippets, 0)

	renderer := RendererFunc(func(s *CodeSnippet) string { return "// " + s.Name() })
	NewClusterTreeBuilder(renderer).Render([]ClusterTree{tree})
	for _, leaf := range Leaves(tree) {
		assert.Equal(t, "// "+leaf.Snippet.Name(), leaf.Code)
	}

	NewClusterTreeBuilder(nil).Render([]ClusterTree{tree})
	for _, leaf := range Leaves(tree) {
		assert.Equal(t, leaf.Snippet.Text(), leaf.Code)
	}
}

func TestGroupIDsAreDeterministic(t *testing.T) {
	a, _ := buildTree(t, distinctSnippets(), 0)
	b, _ := buildTree(t, distinctSnippets(), 0)
	assert.Equal(t, a.NodeID(), b.NodeID())

	assert.Equal(t, groupID([]int{0, 1}), groupID([]int{0, 1}))
	assert.NotEqual(t, groupID([]int{0, 1}), groupID([]int{1, 0}))
	assert.NotEqual(t, groupID([]int{0, 1}), groupID([]int{0, 1, 2}))
	assert.Equal(t, "snippet3", (&ClusterLeaf{ID: "snippet3"}).NodeID())
}
