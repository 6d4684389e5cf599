package app

import "github.com/ludo-technologies/jscan/domain"

// ResolveFilePaths resolves the source files to cluster.
// If every path is already a JavaScript/TypeScript file it is returned as
// is; otherwise files are collected from the paths using the filters.
//
// This keeps explicit file lists (as sent by the MCP server) from going
// through directory discovery a second time.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		if !fileReader.IsValidSourceFile(path) {
			allFiles = false
			break
		}

		// FileExists returns true only for files, not directories
		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	return fileReader.CollectSourceFiles(paths, recursive, includePatterns, excludePatterns)
}
