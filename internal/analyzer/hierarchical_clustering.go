package analyzer

import (
	"fmt"
	"math"
)

// DendrogramNode is a node of the merge tree. A leaf refers to a snippet by
// index; an internal node joins exactly two children at a height equal to
// their average cross-pair distance.
type DendrogramNode struct {
	Index  int // snippet index for leaves, merge id (N, N+1, ...) otherwise
	Height float64
	Left   *DendrogramNode
	Right  *DendrogramNode

	leaves int
}

// NewDendrogramLeaf creates a leaf for snippet index
func NewDendrogramLeaf(index int) *DendrogramNode {
	return &DendrogramNode{Index: index, leaves: 1}
}

// NewDendrogramMerge creates an internal node over two subtrees
func NewDendrogramMerge(id int, left, right *DendrogramNode, height float64) *DendrogramNode {
	return &DendrogramNode{
		Index:  id,
		Height: height,
		Left:   left,
		Right:  right,
		leaves: left.LeafCount() + right.LeafCount(),
	}
}

// IsLeaf returns true for snippet leaves
func (d *DendrogramNode) IsLeaf() bool {
	return d.Left == nil && d.Right == nil
}

// Children returns both children of an internal node, or nil for a leaf
func (d *DendrogramNode) Children() []*DendrogramNode {
	if d.IsLeaf() {
		return nil
	}
	return []*DendrogramNode{d.Left, d.Right}
}

// LeafCount returns the number of snippets below the node
func (d *DendrogramNode) LeafCount() int {
	if d.leaves == 0 {
		if d.IsLeaf() {
			return 1
		}
		return d.Left.LeafCount() + d.Right.LeafCount()
	}
	return d.leaves
}

// LeafIndices returns the snippet indices below the node, left to right
func (d *DendrogramNode) LeafIndices() []int {
	if d.IsLeaf() {
		return []int{d.Index}
	}
	return append(d.Left.LeafIndices(), d.Right.LeafIndices()...)
}

// MaxHeight returns the largest merge height in the tree. For average
// linkage heights never decrease towards the root, so this is the root height.
func MaxHeight(root *DendrogramNode) float64 {
	if root == nil || root.IsLeaf() {
		return 0
	}
	return math.Max(root.Height, math.Max(MaxHeight(root.Left), MaxHeight(root.Right)))
}

// CountNodes returns the number of leaves and internal nodes
func CountNodes(root *DendrogramNode) (leaves, internal int) {
	if root == nil {
		return 0, 0
	}
	if root.IsLeaf() {
		return 1, 0
	}
	ll, li := CountNodes(root.Left)
	rl, ri := CountNodes(root.Right)
	return ll + rl, li + ri + 1
}

// AverageLinkage builds a dendrogram by repeatedly merging the two clusters
// with the smallest mean pairwise distance (UPGMA).
type AverageLinkage struct{}

// NewAverageLinkage creates the average linkage clusterer
func NewAverageLinkage() *AverageLinkage {
	return &AverageLinkage{}
}

// GetName returns the linkage name
func (a *AverageLinkage) GetName() string { return "Average Linkage" }

// Cluster returns the root of the dendrogram: nil for an empty matrix and a
// single leaf for one snippet. Ties go to the first pair in row-major order
// over cluster ids, leaves being 0..N-1 and merges numbered from N upwards.
func (a *AverageLinkage) Cluster(m *DistanceMatrix) (*DendrogramNode, error) {
	n := m.Size()
	if n == 0 {
		return nil, nil
	}
	for i, row := range m.Values {
		if len(row) != n {
			return nil, fmt.Errorf("distance matrix row %d has %d values, want %d", i, len(row), n)
		}
	}
	if n == 1 {
		return NewDendrogramLeaf(0), nil
	}

	// State indexed by slot. A merged cluster reuses the slot of its first
	// member; active lists slots in cluster id order. sums holds the sum of
	// the original entries between two clusters, so every average is taken
	// over original values rather than accumulated updates.
	sums := make([][]float64, n)
	for i := range sums {
		sums[i] = append([]float64(nil), m.Values[i]...)
	}
	nodes := make([]*DendrogramNode, n)
	sizes := make([]int, n)
	active := make([]int, n)
	for i := 0; i < n; i++ {
		nodes[i] = NewDendrogramLeaf(i)
		sizes[i] = 1
		active[i] = i
	}
	avg := func(s, t int) float64 {
		return sums[s][t] / float64(sizes[s]*sizes[t])
	}

	// rowMin[slot] is the smallest average from slot to any later cluster,
	// rowArg[slot] the first slot reaching it.
	rowMin := make([]float64, n)
	rowArg := make([]int, n)
	scanRow := func(pos int) {
		s := active[pos]
		rowMin[s], rowArg[s] = math.Inf(1), -1
		for q := pos + 1; q < len(active); q++ {
			t := active[q]
			if d := avg(s, t); rowArg[s] < 0 || lessThan(d, rowMin[s]) {
				rowMin[s], rowArg[s] = d, t
			}
		}
	}
	for pos := range active {
		scanRow(pos)
	}

	nextID := n
	var root *DendrogramNode
	for len(active) > 1 {
		best := -1
		for _, s := range active {
			if rowArg[s] >= 0 && (best < 0 || lessThan(rowMin[s], rowMin[best])) {
				best = s
			}
		}
		sa, sb := best, rowArg[best]
		height := rowMin[sa]

		merged := NewDendrogramMerge(nextID, nodes[sa], nodes[sb], height)
		nextID++

		for _, k := range active {
			if k == sa || k == sb {
				continue
			}
			sum := sums[sa][k] + sums[sb][k]
			sums[sa][k] = sum
			sums[k][sa] = sum
		}
		nodes[sa] = merged
		sizes[sa] += sizes[sb]
		nodes[sb] = nil

		kept := active[:0]
		for _, s := range active {
			if s != sa && s != sb {
				kept = append(kept, s)
			}
		}
		active = append(kept, sa)
		root = merged

		// Averages to untouched clusters keep their values; the merged
		// cluster has the largest id, so it only wins a row when strictly lower.
		last := len(active) - 1
		for pos := 0; pos < last; pos++ {
			s := active[pos]
			if rowArg[s] == sa || rowArg[s] == sb {
				scanRow(pos)
			} else if d := avg(s, sa); lessThan(d, rowMin[s]) {
				rowMin[s], rowArg[s] = d, sa
			}
		}
		rowMin[sa], rowArg[sa] = math.Inf(1), -1
	}

	return root, nil
}

// tieTolerance is the relative gap below which two averages count as equal.
const tieTolerance = 1e-12

// lessThan reports whether a is below b by more than rounding noise
func lessThan(a, b float64) bool {
	if math.IsInf(b, 1) {
		return !math.IsInf(a, 1)
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return a < b-tieTolerance*scale
}
