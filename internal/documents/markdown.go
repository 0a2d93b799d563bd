package documents

import (
	"fmt"
	"strings"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

// MarkdownRenderer renders the proposal template as a Markdown document,
// useful for pasting straight into the Upwork cover-letter box.
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer { return &MarkdownRenderer{} }

func (r *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

func (r *MarkdownRenderer) Extension() string { return "md" }

func (r *MarkdownRenderer) Render(proposal *models.Proposal) ([]byte, error) {
	content, err := decodeContent(proposal)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", proposal.Title)

	for _, key := range orderedKeys(content) {
		fmt.Fprintf(&b, "## %s\n\n", formatTitle(key))
		r.writeValue(&b, content[key], 3)
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func (r *MarkdownRenderer) writeValue(b *strings.Builder, value interface{}, headingLevel int) {
	switch v := value.(type) {
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			switch child := v[key].(type) {
			case map[string]interface{}, []interface{}:
				fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", headingLevel), formatTitle(key))
				r.writeValue(b, child, headingLevel+1)
			default:
				fmt.Fprintf(b, "**%s:** %v\n\n", formatTitle(key), child)
			}
		}
	case []interface{}:
		for _, item := range v {
			fmt.Fprintf(b, "- %v\n", item)
		}
		b.WriteString("\n")
	default:
		fmt.Fprintf(b, "%v\n\n", v)
	}
}
