package parser

import (
	"context"
	"errors"
	"fmt"
	"io"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrSyntax is returned when the parsed tree contains error or missing nodes
var ErrSyntax = errors.New("syntax errors found in source code")

// Parser provides JavaScript/TypeScript parsing using tree-sitter.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser   *sitter.Parser
	language Language
}

// New creates a new Parser for the given language
func New(language Language) *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(language.grammar())
	return &Parser{
		parser:   parser,
		language: language,
	}
}

// ForPath creates a Parser for the grammar matching path's extension
func ForPath(path string) (*Parser, error) {
	lang, ok := LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported source file: %s", path)
	}
	return New(lang), nil
}

// Language returns the grammar this parser uses
func (p *Parser) Language() Language {
	return p.language
}

// ParseResult represents the result of parsing source code
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
	Language   Language
}

// Parse parses source code and returns the tree. Sources with syntax errors
// are rejected with ErrSyntax.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	result, err := p.ParseTolerant(ctx, source)
	if err != nil {
		return nil, err
	}

	if result.RootNode.HasError() {
		return nil, ErrSyntax
	}

	return result, nil
}

// ParseTolerant parses source code and keeps error-recovery nodes in the tree
func (p *Parser) ParseTolerant(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	return &ParseResult{
		Tree:       tree,
		RootNode:   tree.RootNode(),
		SourceCode: source,
		Language:   p.language,
	}, nil
}

// ParseFile parses source code from a reader
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	source, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	return p.Parse(ctx, source)
}

// Close releases the tree-sitter parser
func (p *Parser) Close() {
	p.parser.Close()
}

// WalkTree traverses the tree depth-first and calls the visitor for each node.
// Returning SkipChildren from the visitor prunes the node's subtree.
func WalkTree(node *sitter.Node, visitor func(*sitter.Node) error) error {
	if node == nil {
		return nil
	}
	if err := visitor(node); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		if err := WalkTree(node.Child(i), visitor); err != nil {
			return err
		}
	}

	return nil
}

// SkipChildren can be returned by a WalkTree visitor to skip a subtree
var SkipChildren = errors.New("skip children")

// FindNodes finds all nodes of a specific type in the tree
func FindNodes(node *sitter.Node, nodeType string) []*sitter.Node {
	var nodes []*sitter.Node

	_ = WalkTree(node, func(n *sitter.Node) error {
		if n.Type() == nodeType {
			nodes = append(nodes, n)
		}
		return nil
	})

	return nodes
}

// HasSyntaxErrors checks if the tree contains any error or missing nodes
func HasSyntaxErrors(node *sitter.Node) bool {
	hasError := false

	_ = WalkTree(node, func(n *sitter.Node) error {
		if n.IsError() || n.IsMissing() {
			hasError = true
		}
		return nil
	})

	return hasError
}
