package constants

// pq-gram profile parameters.
//
// References:
// - Augsten, N., Böhlen, M., & Gamper, J. (2005). Approximate matching of
//   hierarchical data using pq-grams
const (
	// DefaultPQGramP is the number of ancestor labels in each gram (stem length).
	DefaultPQGramP = 2

	// DefaultPQGramQ is the number of consecutive sibling labels in each gram (base length).
	DefaultPQGramQ = 3

	// DefaultPQGramDepth bounds how deep the profile walks into a tree.
	// Nodes at this depth are profiled as leaves.
	DefaultPQGramDepth = 10
)

const (
	// DefaultMatrixWorkers is the number of row-range workers used to fill the distance matrix.
	DefaultMatrixWorkers = 20

	// DefaultSimilarityThreshold is the pruning threshold used when none is configured.
	DefaultSimilarityThreshold = 0.8

	// DefaultConfigFileName is the dedicated project configuration file.
	DefaultConfigFileName = ".jscan.toml"
)

// SourceExtensions lists the file extensions treated as JavaScript/TypeScript source.
var SourceExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// SkipDirectories are never descended into during discovery.
var SkipDirectories = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
	"bower_components",
	"dist",
	"build",
	"coverage",
	"out",
	".next",
	".nuxt",
}
