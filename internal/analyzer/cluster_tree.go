package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// groupNamespace seeds the name-based UUIDs of groups so a group spanning
// the same snippets always gets the same id.
var groupNamespace = uuid.MustParse("6f1c9a52-4d0e-4b8f-9a57-0c4a8e3d2b71")

// ClusterTree is either a *ClusterLeaf or a *ClusterGroup
type ClusterTree interface {
	// NodeID returns the stable identifier of the node
	NodeID() string

	// SnippetCount returns the number of snippets spanned by the node
	SnippetCount() int

	isClusterTree()
}

// ClusterLeaf wraps one snippet. Code is filled in by rendering after pruning.
type ClusterLeaf struct {
	ID      string
	Snippet *CodeSnippet
	Code    string
}

func (l *ClusterLeaf) NodeID() string    { return l.ID }
func (l *ClusterLeaf) SnippetCount() int { return 1 }
func (l *ClusterLeaf) isClusterTree()    {}

// ClusterGroup is a merge of the dendrogram with its similarity score
type ClusterGroup struct {
	ID             string
	Size           int
	Similarity     float64
	Members        []ClusterTree
	BelowThreshold bool
}

func (g *ClusterGroup) NodeID() string    { return g.ID }
func (g *ClusterGroup) SnippetCount() int { return g.Size }
func (g *ClusterGroup) isClusterTree()    {}

// Renderer turns a snippet back into source text
type Renderer interface {
	Render(snippet *CodeSnippet) string
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(snippet *CodeSnippet) string

// Render calls f(snippet)
func (f RendererFunc) Render(snippet *CodeSnippet) string {
	return f(snippet)
}

// TextRenderer renders the snippet's normalized text
var TextRenderer = RendererFunc(func(s *CodeSnippet) string { return s.Text() })

// Similarity converts a merge height into a similarity score in [0,1].
// When every merge happened at height 0 all nodes are fully similar.
func Similarity(height, maxHeight float64) float64 {
	if maxHeight <= 0 {
		return 1.0
	}
	sim := 1.0 - height/maxHeight
	if sim < 0 {
		return 0
	}
	return sim
}

// ClusterTreeBuilder converts a dendrogram into a cluster tree and prunes it
type ClusterTreeBuilder struct {
	renderer Renderer
}

// NewClusterTreeBuilder creates a builder; a nil renderer uses TextRenderer
func NewClusterTreeBuilder(renderer Renderer) *ClusterTreeBuilder {
	if renderer == nil {
		renderer = TextRenderer
	}
	return &ClusterTreeBuilder{renderer: renderer}
}

// Build mirrors the dendrogram. Non-root groups whose similarity is below
// threshold are flagged BelowThreshold.
func (b *ClusterTreeBuilder) Build(root *DendrogramNode, snippets []*CodeSnippet, maxHeight, threshold float64) (ClusterTree, error) {
	if root == nil {
		return nil, nil
	}
	return b.build(root, snippets, maxHeight, threshold, true)
}

func (b *ClusterTreeBuilder) build(node *DendrogramNode, snippets []*CodeSnippet, maxHeight, threshold float64, isRoot bool) (ClusterTree, error) {
	if node.IsLeaf() {
		if node.Index < 0 || node.Index >= len(snippets) {
			return nil, fmt.Errorf("dendrogram leaf %d has no snippet (have %d)", node.Index, len(snippets))
		}
		return &ClusterLeaf{
			ID:      "snippet" + strconv.Itoa(node.Index),
			Snippet: snippets[node.Index],
		}, nil
	}

	similarity := Similarity(node.Height, maxHeight)
	group := &ClusterGroup{
		ID:         groupID(node.LeafIndices()),
		Similarity: similarity,
	}
	for _, child := range node.Children() {
		member, err := b.build(child, snippets, maxHeight, threshold, false)
		if err != nil {
			return nil, err
		}
		group.Members = append(group.Members, member)
		group.Size += member.SnippetCount()
	}
	if !isRoot && similarity < threshold {
		group.BelowThreshold = true
	}
	return group, nil
}

func groupID(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return uuid.NewSHA1(groupNamespace, []byte(strings.Join(parts, ","))).String()
}

// Prune returns the highest groups whose similarity is at least threshold.
// A group below threshold is replaced by the pruned forms of its members; a
// leaf reached that way is kept as a singleton.
func Prune(tree ClusterTree, threshold float64) []ClusterTree {
	if tree == nil {
		return []ClusterTree{}
	}
	var forest []ClusterTree
	var walk func(node ClusterTree)
	walk = func(node ClusterTree) {
		switch n := node.(type) {
		case *ClusterLeaf:
			forest = append(forest, n)
		case *ClusterGroup:
			if n.Similarity >= threshold {
				forest = append(forest, n)
				return
			}
			for _, m := range n.Members {
				walk(m)
			}
		}
	}
	walk(tree)
	return forest
}

// PruneForest prunes every tree of a forest. Pruning an already pruned
// forest at the same threshold returns it unchanged.
func PruneForest(forest []ClusterTree, threshold float64) []ClusterTree {
	out := make([]ClusterTree, 0, len(forest))
	for _, tree := range forest {
		out = append(out, Prune(tree, threshold)...)
	}
	return out
}

// Render fills in the code of every leaf in the forest
func (b *ClusterTreeBuilder) Render(forest []ClusterTree) {
	for _, tree := range forest {
		b.render(tree)
	}
}

func (b *ClusterTreeBuilder) render(node ClusterTree) {
	switch n := node.(type) {
	case *ClusterLeaf:
		n.Code = b.renderer.Render(n.Snippet)
	case *ClusterGroup:
		for _, m := range n.Members {
			b.render(m)
		}
	}
}

// BuildForest builds, prunes and renders in one step
func (b *ClusterTreeBuilder) BuildForest(root *DendrogramNode, snippets []*CodeSnippet, threshold float64) ([]ClusterTree, error) {
	tree, err := b.Build(root, snippets, MaxHeight(root), threshold)
	if err != nil {
		return nil, err
	}
	forest := Prune(tree, threshold)
	b.Render(forest)
	return forest, nil
}

// Leaves returns every leaf under node, left to right
func Leaves(node ClusterTree) []*ClusterLeaf {
	switch n := node.(type) {
	case *ClusterLeaf:
		return []*ClusterLeaf{n}
	case *ClusterGroup:
		var out []*ClusterLeaf
		for _, m := range n.Members {
			out = append(out, Leaves(m)...)
		}
		return out
	}
	return nil
}
