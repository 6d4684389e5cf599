// Package parser provides JavaScript and TypeScript parsing using tree-sitter.
//
// It wraps the tree-sitter Go bindings with one grammar per source flavor
// (JavaScript with JSX, TypeScript, TSX), extracts the functions of a file,
// and normalizes function text into a deterministic layout.
//
// Basic usage:
//
//	p := parser.New(parser.LanguageTypeScript)
//	defer p.Close()
//	result, err := p.Parse(ctx, []byte("function hello(): void {}"))
//	if err != nil {
//	    // Handle parsing error
//	}
//	for _, fn := range parser.ExtractFunctions(result) {
//	    fmt.Println(fn.Name, fn.Start.Line)
//	}
package parser
