package analyzer

import (
	"strings"

	"github.com/ludo-technologies/jscan/domain"
)

// CodeSnippet is one extracted function. Its position in the snippet slice
// is its identity for the whole run.
type CodeSnippet struct {
	ID             int
	Names          []string
	SourceText     string
	NormalizedText string
	FilePath       string
	Language       string
	StartPosition  domain.Position
	EndPosition    domain.Position
	Tree           *CanonicalTree
}

// Name joins all names bound to the function
func (s *CodeSnippet) Name() string {
	return strings.Join(s.Names, ", ")
}

// Text returns the normalized text, falling back to the raw source text
func (s *CodeSnippet) Text() string {
	if s.NormalizedText != "" {
		return s.NormalizedText
	}
	return s.SourceText
}

// ToRef converts the snippet into its serializable form with the given code
func (s *CodeSnippet) ToRef(code string) *domain.SnippetRef {
	return &domain.SnippetRef{
		Name:          s.Name(),
		Code:          code,
		FilePath:      s.FilePath,
		StartPosition: s.StartPosition,
		EndPosition:   s.EndPosition,
	}
}
