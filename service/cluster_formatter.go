package service

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/ludo-technologies/jscan/domain"
)

// ClusterFormatterImpl implements the ClusterOutputFormatter interface
type ClusterFormatterImpl struct {
	utils *FormatUtils
}

// NewClusterFormatter creates a new cluster output formatter
func NewClusterFormatter() *ClusterFormatterImpl {
	return &ClusterFormatterImpl{utils: NewFormatUtils()}
}

// FormatClusterResponse writes the response in the given format
func (f *ClusterFormatterImpl) FormatClusterResponse(response *domain.ClusterResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to format", nil)
	}

	switch format {
	case domain.OutputFormatText, "":
		_, err := io.WriteString(writer, f.formatText(response))
		if err != nil {
			return domain.NewOutputError("failed to write text output", err)
		}
		return nil
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatJS:
		return WriteJSModule(writer, response.Forest)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *ClusterFormatterImpl) formatText(response *domain.ClusterResponse) string {
	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader("Structural Similarity Clusters"))

	var groups, singletons []*domain.ClusterNode
	for _, node := range response.Forest {
		if node.IsLeaf() {
			singletons = append(singletons, node)
		} else {
			groups = append(groups, node)
		}
	}

	if len(groups) > 0 {
		b.WriteString(f.utils.FormatSectionHeader("Groups"))
		for i, group := range groups {
			fmt.Fprintf(&b, "%sGroup %d: %d functions, similarity %s\n",
				strings.Repeat(" ", SectionPadding), i+1, group.Size, f.utils.FormatSimilarity(group.Similarity))
			f.writeMembers(&b, group, ItemPadding)
			b.WriteString("\n")
		}
	} else {
		b.WriteString(strings.Repeat(" ", SectionPadding) + "No similar functions found.\n\n")
	}

	if len(singletons) > 0 {
		b.WriteString(f.utils.FormatSectionHeader("Unique functions"))
		for _, leaf := range singletons {
			b.WriteString(strings.Repeat(" ", SectionPadding) + f.formatSnippet(leaf.Snippet) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(f.utils.FormatWarningsSection("Skipped files", response.ParseErrors))

	if stats := response.Statistics; stats != nil {
		b.WriteString(f.utils.FormatSectionHeader("Summary"))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Files analyzed", stats.FilesAnalyzed))
		if stats.FilesSkipped > 0 {
			b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Files skipped", stats.FilesSkipped))
		}
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Functions", stats.FunctionsFound))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Groups", stats.Groups))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Unique functions", stats.Singletons))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Largest group", stats.LargestGroupSize))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Threshold", fmt.Sprintf("%.2f", stats.Threshold)))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Duration", f.utils.FormatDuration(response.Duration)))
	}

	return b.String()
}

// writeMembers prints the subtree of a group, nested groups indented below their parent
func (f *ClusterFormatterImpl) writeMembers(b *strings.Builder, node *domain.ClusterNode, indent int) {
	for _, m := range node.Members {
		pad := strings.Repeat(" ", indent)
		if m.IsLeaf() {
			b.WriteString(pad + "- " + f.formatSnippet(m.Snippet) + "\n")
			continue
		}
		fmt.Fprintf(b, "%s+ %d functions, similarity %s\n", pad, m.Size, f.utils.FormatSimilarity(m.Similarity))
		f.writeMembers(b, m, indent+2)
	}
}

func (f *ClusterFormatterImpl) formatSnippet(s *domain.SnippetRef) string {
	return colorCyan.Sprint(s.Name) + " " + colorFaint.Sprint(s.Location())
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// WriteJSModule writes the forest as a CommonJS data module:
// module.exports = [...]; with unquoted keys and every snippet's code
// collapsed onto a single line.
func WriteJSModule(w io.Writer, forest []*domain.ClusterNode) error {
	var b strings.Builder
	b.WriteString("module.exports = [")
	for i, node := range forest {
		if i > 0 {
			b.WriteString(", ")
		}
		writeJSNode(&b, node)
	}
	b.WriteString("];\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return domain.NewOutputError("failed to write js module", err)
	}
	return nil
}

func writeJSNode(b *strings.Builder, node *domain.ClusterNode) {
	fields := []string{
		"id: " + jsString(node.ID),
		"kind: " + jsString(node.Kind),
		"size: " + strconv.Itoa(node.Size),
		"similarity: " + strconv.FormatFloat(node.Similarity, 'g', -1, 64),
	}
	if node.BelowThreshold {
		fields = append(fields, "isBelowThreshold: true")
	}
	b.WriteString("{" + strings.Join(fields, ", "))

	if s := node.Snippet; s != nil {
		code := strings.TrimSpace(whitespaceRun.ReplaceAllString(s.Code, " "))
		fmt.Fprintf(b, ", codeSnippet: {name: %s, code: %s, filePath: %s, startPosition: %s, endPosition: %s}",
			jsString(s.Name), jsString(code), jsString(s.FilePath), jsPosition(s.StartPosition), jsPosition(s.EndPosition))
	}

	if len(node.Members) > 0 {
		b.WriteString(", members: [")
		for i, m := range node.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			writeJSNode(b, m)
		}
		b.WriteString("]")
	}
	b.WriteString("}")
}

func jsString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(data)
}

func jsPosition(p domain.Position) string {
	return fmt.Sprintf("{line: %d, column: %d}", p.Line, p.Column)
}
