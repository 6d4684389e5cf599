package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/jscan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFile(t *testing.T, dirPath, fileName, content string) string {
	t.Helper()
	filePath := filepath.Join(dirPath, fileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	return filePath
}

func createTestDirectoryStructure(t *testing.T) string {
	tmpDir := t.TempDir()

	createTestFile(t, tmpDir, "main.js", "function main() {}")
	createTestFile(t, tmpDir, "util.ts", "export const id = (x: number) => x;")
	createTestFile(t, tmpDir, "view.tsx", "const View = () => <div/>;")
	createTestFile(t, tmpDir, "legacy.cjs", "module.exports = function () {};")
	createTestFile(t, tmpDir, "README.md", "# Documentation")
	createTestFile(t, tmpDir, "package.json", "{}")
	createTestFile(t, tmpDir, "lib/helpers.mjs", "export function help() {}")
	createTestFile(t, tmpDir, "lib/deep/nested/file.jsx", "function Nested() {}")
	createTestFile(t, tmpDir, ".eslintrc.js", "module.exports = {};")
	createTestFile(t, tmpDir, ".cache/cached.js", "function cached() {}")
	createTestFile(t, tmpDir, "node_modules/pkg/index.js", "function dep() {}")
	createTestFile(t, tmpDir, "dist/bundle.js", "function bundled() {}")

	return tmpDir
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestFileReader_CollectSourceFiles(t *testing.T) {
	root := createTestDirectoryStructure(t)
	fr := NewFileReader()

	t.Run("recursive", func(t *testing.T) {
		files, err := fr.CollectSourceFiles([]string{root}, true, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"legacy.cjs",
			"lib/deep/nested/file.jsx",
			"lib/helpers.mjs",
			"main.js",
			"util.ts",
			"view.tsx",
		}, relPaths(t, root, files))
	})

	t.Run("non recursive", func(t *testing.T) {
		files, err := fr.CollectSourceFiles([]string{root}, false, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"legacy.cjs", "main.js", "util.ts", "view.tsx"}, relPaths(t, root, files))
	})

	t.Run("include and exclude", func(t *testing.T) {
		files, err := fr.CollectSourceFiles([]string{root}, true, []string{"**/*.{js,jsx,mjs}"}, []string{"lib/deep/**"})
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/helpers.mjs", "main.js"}, relPaths(t, root, files))
	})

	t.Run("single file and duplicates", func(t *testing.T) {
		file := filepath.Join(root, "main.js")
		files, err := fr.CollectSourceFiles([]string{file, root, file}, false, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, file, files[0])
		assert.Len(t, files, 4)
	})

	t.Run("non source file argument is ignored", func(t *testing.T) {
		files, err := fr.CollectSourceFiles([]string{filepath.Join(root, "README.md")}, true, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("no paths", func(t *testing.T) {
		files, err := fr.CollectSourceFiles(nil, true, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestFileReader_CollectSourceFilesMissingRoot(t *testing.T) {
	_, err := NewFileReader().CollectSourceFiles([]string{filepath.Join(t.TempDir(), "missing")}, true, nil, nil)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileNotFound))
}

func TestFileReader_IsValidSourceFile(t *testing.T) {
	fr := NewFileReader()

	for _, path := range []string{"a.js", "a.jsx", "a.mjs", "a.cjs", "a.ts", "a.tsx", "a.mts", "a.cts", "A.JS"} {
		assert.True(t, fr.IsValidSourceFile(path), path)
	}
	for _, path := range []string{"a.py", "a.json", "a", "a.js.map"} {
		assert.False(t, fr.IsValidSourceFile(path), path)
	}
}

func TestFileReader_ReadFileAndExists(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "a.js", "let a = 1;")
	fr := NewFileReader()

	content, err := fr.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;", string(content))

	_, err = fr.ReadFile(filepath.Join(dir, "missing.js"))
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileNotFound))

	exists, err := fr.FileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fr.FileExists(dir)
	require.NoError(t, err)
	assert.False(t, exists, "directories are not files")

	exists, err = fr.FileExists(filepath.Join(dir, "missing.js"))
	require.NoError(t, err)
	assert.False(t, exists)
}
