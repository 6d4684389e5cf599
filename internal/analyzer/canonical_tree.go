package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// CanonicalTree is the comparable shape of a parse tree. Labels carry only
// the syntactic construct kind, never identifier names or literal values.
type CanonicalTree struct {
	Label    string
	Children []*CanonicalTree
}

// NewCanonicalTree creates a tree node with the given label and children
func NewCanonicalTree(label string, children ...*CanonicalTree) *CanonicalTree {
	return &CanonicalTree{
		Label:    label,
		Children: children,
	}
}

// IsLeaf returns true if this node has no children
func (t *CanonicalTree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Size returns the number of nodes in the subtree
func (t *CanonicalTree) Size() int {
	if t == nil {
		return 0
	}
	size := 1
	for _, child := range t.Children {
		size += child.Size()
	}
	return size
}

// Height returns the number of edges on the longest root-to-leaf path
func (t *CanonicalTree) Height() int {
	if t == nil || t.IsLeaf() {
		return 0
	}
	maxHeight := 0
	for _, child := range t.Children {
		if h := child.Height(); h > maxHeight {
			maxHeight = h
		}
	}
	return maxHeight + 1
}

// Equal reports whether both trees have the same labels in the same shape
func (t *CanonicalTree) Equal(other *CanonicalTree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Label != other.Label || len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// String renders the tree as an s-expression, e.g. (program (identifier))
func (t *CanonicalTree) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *CanonicalTree) write(b *strings.Builder) {
	if t == nil {
		b.WriteString("()")
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Label)
	for _, child := range t.Children {
		b.WriteByte(' ')
		child.write(b)
	}
	b.WriteByte(')')
}

// TreeConverter converts tree-sitter nodes into canonical trees.
//
// Only named nodes are kept: anonymous tokens (punctuation, keywords,
// operators) carry formatting or are implied by their parent's kind.
// Comments are dropped.
type TreeConverter struct {
	skip map[string]bool
}

// NewTreeConverter creates a converter that drops comments
func NewTreeConverter() *TreeConverter {
	return &TreeConverter{
		skip: map[string]bool{
			"comment":        true,
			"html_comment":   true,
			"hash_bang_line": true,
		},
	}
}

// Convert builds the canonical tree rooted at node. A nil node yields nil.
// Error-recovery nodes are converted like any other named node.
func (tc *TreeConverter) Convert(node *sitter.Node) *CanonicalTree {
	if node == nil || tc.skip[node.Type()] {
		return nil
	}

	tree := &CanonicalTree{Label: node.Type()}

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		if converted := tc.Convert(child); converted != nil {
			tree.Children = append(tree.Children, converted)
		}
	}

	return tree
}
