package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/jscan/domain"
)

// node is a terse constructor for hand-built canonical trees
func node(label string, children ...*CanonicalTree) *CanonicalTree {
	return NewCanonicalTree(label, children...)
}

func returnIdentity() *CanonicalTree {
	return node("program",
		node("function_declaration",
			node("identifier"),
			node("formal_parameters", node("identifier")),
			node("statement_block", node("return_statement", node("identifier")))))
}

func ifWithoutElse() *CanonicalTree {
	return node("program",
		node("function_declaration",
			node("identifier"),
			node("formal_parameters"),
			node("statement_block",
				node("if_statement",
					node("parenthesized_expression", node("identifier")),
					node("statement_block")))))
}

func arrowIncrement() *CanonicalTree {
	return node("program",
		node("lexical_declaration",
			node("variable_declarator",
				node("identifier"),
				node("arrow_function",
					node("identifier"),
					node("binary_expression", node("identifier"), node("number"))))))
}

func classWithMethod() *CanonicalTree {
	return node("program",
		node("class_declaration",
			node("identifier"),
			node("class_body",
				node("method_definition", node("property_identifier"), node("formal_parameters"), node("statement_block")))))
}

func loopSum() *CanonicalTree {
	return node("program",
		node("function_declaration",
			node("identifier"),
			node("formal_parameters", node("identifier")),
			node("statement_block",
				node("for_statement",
					node("lexical_declaration", node("variable_declarator", node("identifier"), node("number"))),
					node("expression_statement", node("binary_expression", node("identifier"), node("identifier"))),
					node("update_expression", node("identifier")),
					node("expression_statement", node("augmented_assignment_expression", node("identifier"), node("identifier")))),
				node("return_statement", node("identifier")))))
}

// snippetsFor wraps trees into snippets named f0, f1, ...
func snippetsFor(trees ...*CanonicalTree) []*CodeSnippet {
	snippets := make([]*CodeSnippet, len(trees))
	for i, tree := range trees {
		snippets[i] = &CodeSnippet{
			ID:            i,
			Names:         []string{fmt.Sprintf("f%d", i)},
			SourceText:    fmt.Sprintf("function f%d() {}", i),
			FilePath:      "test.js",
			StartPosition: domain.Position{Line: i + 1},
			EndPosition:   domain.Position{Line: i + 1, Column: 17},
			Tree:          tree,
		}
	}
	return snippets
}

// matrixOf builds a symmetric matrix from the lower triangle, row by row
func matrixOf(lower ...[]float64) *DistanceMatrix {
	n := len(lower)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i, row := range lower {
		for j, v := range row {
			values[i][j] = v
			values[j][i] = v
		}
	}
	return &DistanceMatrix{Values: values}
}
