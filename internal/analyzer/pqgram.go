package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ludo-technologies/jscan/internal/constants"
)

// ErrMalformedTree is returned when a canonical tree has a nil child or a
// node reachable through more than one path.
var ErrMalformedTree = errors.New("malformed canonical tree")

const (
	gramPad       = "\x00*"
	gramSeparator = "\x1f"
)

// PQGramConfig holds the pq-gram profile parameters
type PQGramConfig struct {
	P     int // ancestors per gram
	Q     int // consecutive siblings per gram
	Depth int // nodes at this depth are profiled as leaves
}

// DefaultPQGramConfig returns p=2, q=3, depth=10
func DefaultPQGramConfig() PQGramConfig {
	return PQGramConfig{
		P:     constants.DefaultPQGramP,
		Q:     constants.DefaultPQGramQ,
		Depth: constants.DefaultPQGramDepth,
	}
}

// Validate checks that all parameters are positive
func (c PQGramConfig) Validate() error {
	if c.P < 1 || c.Q < 1 || c.Depth < 1 {
		return fmt.Errorf("invalid pq-gram parameters p=%d q=%d depth=%d", c.P, c.Q, c.Depth)
	}
	return nil
}

// Profile is the bag of pq-grams of one tree
type Profile struct {
	grams map[string]int
	size  int
}

// Size returns the number of grams in the bag, counting multiplicity
func (p *Profile) Size() int {
	return p.size
}

// Count returns the multiplicity of a gram given as its p+q labels
func (p *Profile) Count(labels ...string) int {
	return p.grams[strings.Join(labels, gramSeparator)]
}

func (p *Profile) add(anc, sib []string) {
	key := strings.Join(anc, gramSeparator) + gramSeparator + strings.Join(sib, gramSeparator)
	p.grams[key]++
	p.size++
}

// BuildProfile computes the pq-gram profile of a tree (Augsten et al.):
// every gram is the p labels on the path down to a node followed by a window
// of q consecutive child labels, padded with a filler label.
func (c PQGramConfig) BuildProfile(tree *CanonicalTree) (*Profile, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: nil root", ErrMalformedTree)
	}

	b := &profileBuilder{
		cfg:     c,
		profile: &Profile{grams: make(map[string]int)},
		visited: make(map[*CanonicalTree]struct{}),
	}
	if err := b.walk(tree, filled(c.P), 1); err != nil {
		return nil, err
	}
	return b.profile, nil
}

type profileBuilder struct {
	cfg     PQGramConfig
	profile *Profile
	visited map[*CanonicalTree]struct{}
}

func (b *profileBuilder) walk(node *CanonicalTree, anc []string, depth int) error {
	if _, seen := b.visited[node]; seen {
		return fmt.Errorf("%w: node %q is reachable twice", ErrMalformedTree, node.Label)
	}
	b.visited[node] = struct{}{}

	anc = shift(anc, node.Label)
	sib := filled(b.cfg.Q)

	if node.IsLeaf() || depth >= b.cfg.Depth {
		b.profile.add(anc, sib)
		return nil
	}

	for _, child := range node.Children {
		if child == nil {
			return fmt.Errorf("%w: nil child under %q", ErrMalformedTree, node.Label)
		}
		sib = shift(sib, child.Label)
		b.profile.add(anc, sib)
		if err := b.walk(child, anc, depth+1); err != nil {
			return err
		}
	}
	for k := 1; k < b.cfg.Q; k++ {
		sib = shift(sib, gramPad)
		b.profile.add(anc, sib)
	}
	return nil
}

func filled(n int) []string {
	reg := make([]string, n)
	for i := range reg {
		reg[i] = gramPad
	}
	return reg
}

// shift drops the oldest label and appends label, returning a new register
func shift(reg []string, label string) []string {
	out := make([]string, len(reg))
	copy(out, reg[1:])
	out[len(out)-1] = label
	return out
}

// ProfileDistance is the size of the bag symmetric difference of two profiles
func ProfileDistance(a, b *Profile) int {
	distance := 0
	for key, ca := range a.grams {
		cb := b.grams[key]
		if ca > cb {
			distance += ca - cb
		} else {
			distance += cb - ca
		}
	}
	for key, cb := range b.grams {
		if _, ok := a.grams[key]; !ok {
			distance += cb
		}
	}
	return distance
}

// ProfileSimilarity is 1 - distance/(|a|+|b|), clamped to [0,1]
func ProfileSimilarity(a, b *Profile) float64 {
	total := a.size + b.size
	if total == 0 {
		return 1.0
	}
	sim := 1.0 - float64(ProfileDistance(a, b))/float64(total)
	switch {
	case sim < 0:
		return 0
	case sim > 1:
		return 1
	}
	return sim
}

// Distance computes the pq-gram distance between two trees
func (c PQGramConfig) Distance(a, b *CanonicalTree) (float64, error) {
	pa, pb, err := c.profiles(a, b)
	if err != nil {
		return 0, err
	}
	return float64(ProfileDistance(pa, pb)), nil
}

// Similarity computes the normalized pq-gram similarity between two trees
func (c PQGramConfig) Similarity(a, b *CanonicalTree) (float64, error) {
	pa, pb, err := c.profiles(a, b)
	if err != nil {
		return 0, err
	}
	return ProfileSimilarity(pa, pb), nil
}

func (c PQGramConfig) profiles(a, b *CanonicalTree) (*Profile, *Profile, error) {
	pa, err := c.BuildProfile(a)
	if err != nil {
		return nil, nil, err
	}
	pb, err := c.BuildProfile(b)
	if err != nil {
		return nil, nil, err
	}
	return pa, pb, nil
}
