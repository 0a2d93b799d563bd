// Package documents renders the proposal template JSON into downloadable
// artifacts. Access gating lives in the workflow package; this package only
// turns already-authorized proposal data into bytes.
package documents

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

// Renderer turns a proposal into a document artifact.
type Renderer interface {
	Render(proposal *models.Proposal) ([]byte, error)
	ContentType() string
	Extension() string
}

// sectionOrder fixes the layout of the known template sections. Unknown keys
// render after these, sorted, so output is deterministic.
var sectionOrder = []string{
	"introduction",
	"understanding",
	"proposed_solution",
	"timeline",
	"budget",
	"why_choose_us",
	"portfolio_examples",
	"questions",
}

// revision_notes is working material for the revise cycle and never appears
// in rendered documents.
const revisionNotesKey = "revision_notes"

func decodeContent(proposal *models.Proposal) (map[string]interface{}, error) {
	content := map[string]interface{}{}

	if len(proposal.Content) == 0 {
		return content, nil
	}

	if err := json.Unmarshal(proposal.Content, &content); err != nil {
		return nil, fmt.Errorf("proposal %d has malformed template content: %w", proposal.ID, err)
	}

	return content, nil
}

func orderedKeys(content map[string]interface{}) []string {
	seen := make(map[string]bool, len(content))
	var keys []string

	for _, key := range sectionOrder {
		if _, ok := content[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}

	var rest []string
	for key := range content {
		if !seen[key] && key != revisionNotesKey {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// formatTitle turns a snake_case section key into a readable heading.
func formatTitle(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Filename builds the served file name for an artifact.
func Filename(proposal *models.Proposal, suffix, extension string) string {
	return fmt.Sprintf("%s_%s.%s", proposal.Title, suffix, extension)
}
