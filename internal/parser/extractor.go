package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// FunctionKind describes which construct a function was extracted from
type FunctionKind string

const (
	FunctionDeclaration FunctionKind = "declaration"
	FunctionVariable    FunctionKind = "variable"
	FunctionMethod      FunctionKind = "method"
)

// Point is a 1-based line and 0-based column
type Point struct {
	Line   int
	Column int
}

// Function is a function found in a parsed file
type Function struct {
	Name  string
	Kind  FunctionKind
	Text  string
	Start Point
	End   Point

	// Node is the construct the function was extracted from. It stays valid
	// only while the ParseResult's tree is alive.
	Node *sitter.Node
}

// ExtractFunctions returns every function in the tree in source order,
// nested functions included. Functions come from declarations, from variable
// declarators bound to an arrow function or function expression (rendered as
// "const <name> = <value>"), and from class methods.
func ExtractFunctions(result *ParseResult) []*Function {
	var functions []*Function
	src := result.SourceCode

	_ = WalkTree(result.RootNode, func(n *sitter.Node) error {
		switch n.Type() {
		case "function_declaration", "generator_function_declaration":
			functions = append(functions, newFunction(n, FunctionDeclaration, nameOf(n, src), n.Content(src)))

		case "variable_declarator":
			value := n.ChildByFieldName("value")
			if value == nil || !isFunctionValue(value.Type()) {
				return nil
			}
			name := nameOf(n, src)
			text := "const " + name + " = " + value.Content(src)
			functions = append(functions, newFunction(n, FunctionVariable, name, text))

		case "method_definition":
			if n.ChildByFieldName("body") == nil {
				return nil
			}
			functions = append(functions, newFunction(n, FunctionMethod, nameOf(n, src), n.Content(src)))
		}
		return nil
	})

	return functions
}

func isFunctionValue(nodeType string) bool {
	switch nodeType {
	case "arrow_function", "function", "function_expression", "generator_function":
		return true
	}
	return false
}

func nameOf(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	return "<anonymous>"
}

func newFunction(n *sitter.Node, kind FunctionKind, name, text string) *Function {
	start, end := n.StartPoint(), n.EndPoint()
	return &Function{
		Name:  name,
		Kind:  kind,
		Text:  text,
		Start: Point{Line: int(start.Row) + 1, Column: int(start.Column)},
		End:   Point{Line: int(end.Row) + 1, Column: int(end.Column)},
		Node:  n,
	}
}
