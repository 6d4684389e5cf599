package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		lang   Language
		input  string
		expect string
	}{
		{
			name:   "strips comments and dedents",
			lang:   LanguageJavaScript,
			input:  "function add(a, b) {\n    // sum\n    return a + b; /* done */\n  }",
			expect: "function add(a, b) {\n  return a + b;\n}",
		},
		{
			name:   "drops blank lines and trailing whitespace",
			lang:   LanguageTypeScript,
			input:  "const f = (x: number) => {  \n\n\n    return x;\n  }",
			expect: "const f = (x: number) => {\n  return x;\n}",
		},
		{
			name:   "keeps multi-line template literals",
			lang:   LanguageJavaScript,
			input:  "const msg = () => `line1   \n    keep   \nend`",
			expect: "const msg = () => `line1   \n    keep   \nend`",
		},
		{
			name:   "unparseable text is returned unchanged",
			lang:   LanguageJavaScript,
			input:  "function (",
			expect: "function (",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.lang)
			defer p.Close()
			n := NewNormalizer(p)
			assert.Equal(t, tt.expect, n.Normalize(context.Background(), tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	p := New(LanguageJavaScript)
	defer p.Close()
	n := NewNormalizer(p)
	input := "function a(x) {\n      /* c */\n      if (x) {\n        return 1;\n      }\n      return 2;\n    }"

	once := n.Normalize(context.Background(), input)
	twice := n.Normalize(context.Background(), once)
	assert.Equal(t, once, twice)
}

func TestNormalizerReusesFileParser(t *testing.T) {
	p := New(LanguageJavaScript)
	defer p.Close()

	source := "function a(x) {\n  // one\n  return x;\n}\nfunction b(y) {\n  /* two */\n  return y + 1;\n}\n"
	result, err := p.Parse(context.Background(), []byte(source))
	require.NoError(t, err)

	functions := ExtractFunctions(result)
	require.Len(t, functions, 2)

	n := NewNormalizer(p)
	var normalized []string
	for _, fn := range functions {
		normalized = append(normalized, n.Normalize(context.Background(), fn.Text))
	}
	assert.Equal(t, []string{
		"function a(x) {\n  return x;\n}",
		"function b(y) {\n  return y + 1;\n}",
	}, normalized)

	// The file's tree outlives the reparses done by the normalizer
	for i, fn := range functions {
		assert.Equal(t, "function_declaration", fn.Node.Type(), "function %d", i)
	}
	assert.Equal(t, "b", functions[1].Node.ChildByFieldName("name").Content(result.SourceCode))
}
