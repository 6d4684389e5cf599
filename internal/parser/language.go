package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language identifies the grammar used to parse a source file
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)

// LanguageForPath picks the grammar from the file extension.
// The JavaScript grammar covers JSX.
func LanguageForPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript, true
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript, true
	case ".tsx":
		return LanguageTSX, true
	default:
		return "", false
	}
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case LanguageTypeScript:
		return typescript.GetLanguage()
	case LanguageTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// String returns the language name
func (l Language) String() string {
	return string(l)
}
