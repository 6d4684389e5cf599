package analyzer

import (
	"context"
	"testing"

	"github.com/ludo-technologies/jscan/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertSource(t *testing.T, lang parser.Language, source string) *CanonicalTree {
	t.Helper()
	p := parser.New(lang)
	defer p.Close()

	result, err := p.Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	return NewTreeConverter().Convert(result.RootNode)
}

func TestTreeConverterIgnoresNamesAndValues(t *testing.T) {
	a := convertSource(t, parser.LanguageJavaScript, "function add(a, b) { return a + b * 2; }")
	b := convertSource(t, parser.LanguageJavaScript, "function sum(x, y) { return x + y * 7; }")

	assert.Equal(t, "program", a.Label)
	assert.True(t, a.Equal(b), "renamed identifiers and literals should not change the tree:\n%s\n%s", a, b)
}

func TestTreeConverterIgnoresCommentsAndFormatting(t *testing.T) {
	a := convertSource(t, parser.LanguageJavaScript, "function f(x) {\n  // note\n  return x; /* end */\n}")
	b := convertSource(t, parser.LanguageJavaScript, "function f(x){return x;}")

	assert.True(t, a.Equal(b))
	assert.NotContains(t, a.String(), "comment")
}

func TestTreeConverterDistinguishesStructure(t *testing.T) {
	a := convertSource(t, parser.LanguageJavaScript, "function f(x) { return x; }")
	b := convertSource(t, parser.LanguageJavaScript, "function f(x) { if (x) { return x; } }")

	assert.False(t, a.Equal(b))
	assert.Contains(t, b.String(), "(if_statement")
}

func TestTreeConverterSkipsPunctuation(t *testing.T) {
	tree := convertSource(t, parser.LanguageJavaScript, "f(a, b);")
	assert.Equal(t,
		"(program (expression_statement (call_expression (identifier) (arguments (identifier) (identifier)))))",
		tree.String())
}

func TestTreeConverterTypeScript(t *testing.T) {
	tree := convertSource(t, parser.LanguageTypeScript, "function f(x: number): number { return x; }")
	assert.Contains(t, tree.String(), "type_annotation")
}

func TestTreeConverterNil(t *testing.T) {
	assert.Nil(t, NewTreeConverter().Convert(nil))
}

func TestCanonicalTreeMetrics(t *testing.T) {
	tree := node("a", node("b", node("c")), node("d"))

	assert.Equal(t, 4, tree.Size())
	assert.Equal(t, 2, tree.Height())
	assert.False(t, tree.IsLeaf())
	assert.True(t, tree.Children[1].IsLeaf())
	assert.Equal(t, "(a (b (c)) (d))", tree.String())
}

func TestCanonicalTreeEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *CanonicalTree
		equal bool
	}{
		{"same shape", node("a", node("b")), node("a", node("b")), true},
		{"different label", node("a", node("b")), node("a", node("c")), false},
		{"different arity", node("a", node("b")), node("a", node("b"), node("b")), false},
		{"child order matters", node("a", node("b"), node("c")), node("a", node("c"), node("b")), false},
		{"both nil", nil, nil, true},
		{"one nil", node("a"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
		})
	}
}

func TestTreeConverterDropsOperatorTokens(t *testing.T) {
	less := convertSource(t, parser.LanguageJavaScript, "function f(a, b) { return a < b; }")
	greater := convertSource(t, parser.LanguageJavaScript, "function f(a, b) { return a > b; }")

	assert.True(t, less.Equal(greater), "operators are token values, not construct kinds")
	assert.Contains(t, less.String(), "(binary_expression (identifier) (identifier))")
}
