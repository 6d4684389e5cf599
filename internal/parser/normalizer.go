package parser

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Normalizer rewrites function text into a deterministic layout without
// changing its meaning: comments are dropped, trailing whitespace is trimmed,
// blank lines are removed and common indentation is stripped. Lines inside
// multi-line string or template literals are left untouched.
//
// A Normalizer reparses text with the Parser it was given, so it shares that
// parser's lack of concurrency safety. Trees from earlier parses stay valid.
type Normalizer struct {
	parser *Parser
}

// NewNormalizer creates a normalizer that parses with p. The caller keeps
// ownership of p and closes it.
func NewNormalizer(p *Parser) *Normalizer {
	return &Normalizer{parser: p}
}

type byteRange struct {
	start, end int
}

// Normalize returns the normalized text. If the text cannot be parsed
// cleanly it is returned unchanged.
func (n *Normalizer) Normalize(ctx context.Context, text string) string {
	result, err := n.parser.Parse(ctx, []byte(text))
	if err != nil {
		return text
	}

	var comments []byteRange
	var literals []byteRange
	_ = WalkTree(result.RootNode, func(node *sitter.Node) error {
		switch node.Type() {
		case "comment", "html_comment":
			comments = append(comments, byteRange{int(node.StartByte()), int(node.EndByte())})
			return SkipChildren
		case "template_string", "string":
			if node.StartPoint().Row != node.EndPoint().Row {
				literals = append(literals, byteRange{int(node.StartByte()), int(node.EndByte())})
			}
			return SkipChildren
		}
		return nil
	})

	stripped, literals := stripRanges(text, comments, literals)
	return reflow(stripped, literals)
}

// stripRanges replaces each comment with a single space and shifts the
// literal ranges to match the new text.
func stripRanges(text string, comments, literals []byteRange) (string, []byteRange) {
	if len(comments) == 0 {
		return text, literals
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].start < comments[j].start })

	type cut struct {
		end     int // end of the comment in the original text
		removed int // bytes removed up to and including this comment
	}

	var b strings.Builder
	cuts := make([]cut, 0, len(comments))
	prev, removed := 0, 0
	for _, c := range comments {
		b.WriteString(text[prev:c.start])
		b.WriteByte(' ')
		removed += (c.end - c.start) - 1
		cuts = append(cuts, cut{end: c.end, removed: removed})
		prev = c.end
	}
	b.WriteString(text[prev:])

	moved := make([]byteRange, len(literals))
	for i, l := range literals {
		delta := 0
		for _, c := range cuts {
			if c.end <= l.start {
				delta = c.removed
			}
		}
		moved[i] = byteRange{l.start - delta, l.end - delta}
	}
	return b.String(), moved
}

// reflow trims, drops blank lines and dedents every line that does not lie
// inside a multi-line literal.
func reflow(text string, literals []byteRange) string {
	lines := strings.Split(text, "\n")
	inside := make([]bool, len(lines))    // line starts inside a literal
	openEnded := make([]bool, len(lines)) // a literal continues past the line end

	offset := 0
	for i, line := range lines {
		lineStart, lineEnd := offset, offset+len(line)
		for _, l := range literals {
			if lineStart > l.start && lineStart < l.end {
				inside[i] = true
			}
			if l.start < lineEnd && l.end > lineEnd {
				openEnded[i] = true
			}
		}
		offset = lineEnd + 1
	}

	indent := -1
	for i, line := range lines {
		if i == 0 || inside[i] || strings.TrimSpace(line) == "" {
			continue
		}
		w := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || w < indent {
			indent = w
		}
	}
	if indent < 0 {
		indent = 0
	}

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if inside[i] {
			out = append(out, line)
			continue
		}
		if !openEnded[i] {
			line = strings.TrimRight(line, " \t\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
		}
		if i > 0 {
			line = line[indent:]
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
