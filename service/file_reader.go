package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/internal/constants"
)

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct {
	extensions map[string]bool
	skipDirs   map[string]bool
}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	f := &FileReaderImpl{
		extensions: make(map[string]bool, len(constants.SourceExtensions)),
		skipDirs:   make(map[string]bool, len(constants.SkipDirectories)),
	}
	for _, ext := range constants.SourceExtensions {
		f.extensions[ext] = true
	}
	for _, dir := range constants.SkipDirectories {
		f.skipDirs[dir] = true
	}
	return f
}

// CollectSourceFiles finds all JavaScript/TypeScript files in the given
// paths. Files are returned in walk order (lexical within a directory, roots
// in the order given). A missing root or a failing walk is an error.
func (f *FileReaderImpl) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if !info.IsDir() {
			if f.IsValidSourceFile(path) && f.shouldIncludeFile(filepath.Base(path), includePatterns, excludePatterns) {
				add(path)
			}
			continue
		}

		dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		for _, file := range dirFiles {
			add(file)
		}
	}

	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidSourceFile checks if a file has a JavaScript or TypeScript extension
func (f *FileReaderImpl) IsValidSourceFile(path string) bool {
	return f.extensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists checks if a file exists
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *FileReaderImpl) collectFromDirectory(root string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || strings.HasPrefix(d.Name(), ".") || f.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if f.matchesAny(excludePatterns, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") || !f.IsValidSourceFile(path) {
			return nil
		}
		if f.shouldIncludeFile(rel, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to walk directory %s", root), err)
	}

	return files, nil
}

// shouldIncludeFile applies exclude patterns first, then include patterns.
// rel is slash separated and relative to the walked root.
func (f *FileReaderImpl) shouldIncludeFile(rel string, includePatterns, excludePatterns []string) bool {
	if f.matchesAny(excludePatterns, rel) {
		return false
	}
	if len(includePatterns) == 0 {
		return true
	}
	return f.matchesAny(includePatterns, rel)
}

func (f *FileReaderImpl) matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if f.matchesPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// matchesPattern matches a doublestar pattern against the relative path and,
// for patterns without a separator, against the base name too.
func (f *FileReaderImpl) matchesPattern(pattern, rel string) bool {
	pattern = filepath.ToSlash(pattern)
	if matched, _ := doublestar.Match(pattern, rel); matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if matched, _ := doublestar.Match(pattern, pathBase(rel)); matched {
			return true
		}
	}
	return false
}

func pathBase(rel string) string {
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[i+1:]
	}
	return rel
}
