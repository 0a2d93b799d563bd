package documents

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

func sampleProposal(t *testing.T) *models.Proposal {
	t.Helper()

	content, err := json.Marshal(map[string]interface{}{
		"questions":     "Any constraints?",
		"introduction":  "Hello client",
		"extra_section": "Custom notes",
		"timeline": map[string]interface{}{
			"phase_1": "Planning",
			"phase_2": "Build",
		},
		"portfolio_examples": []interface{}{"shop rebuild", "booking app"},
		"revision_notes": map[string]interface{}{
			"admin_recommendations": "tighten scope",
			"bd_response":           "done",
		},
	})
	require.NoError(t, err)

	return &models.Proposal{
		Model:   gorm.Model{ID: 7},
		Title:   "Storefront Revamp",
		Content: content,
		Status:  models.StatusApproved,
	}
}

func TestMarkdownRenderOrdersSections(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(sampleProposal(t))
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "# Storefront Revamp\n"))

	intro := strings.Index(doc, "## Introduction")
	timeline := strings.Index(doc, "## Timeline")
	questions := strings.Index(doc, "## Questions")
	extra := strings.Index(doc, "## Extra Section")

	require.NotEqual(t, -1, intro)
	require.NotEqual(t, -1, extra)
	assert.Less(t, intro, timeline)
	assert.Less(t, timeline, questions)
	// Unknown keys come after all known sections.
	assert.Less(t, questions, extra)
}

func TestMarkdownRenderNestedAndListValues(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(sampleProposal(t))
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, "**Phase 1:** Planning")
	assert.Contains(t, doc, "- shop rebuild")
	assert.Contains(t, doc, "- booking app")
}

func TestRenderSkipsRevisionNotes(t *testing.T) {
	for _, renderer := range []Renderer{NewMarkdownRenderer(), NewPDFRenderer()} {
		out, err := renderer.Render(sampleProposal(t))
		require.NoError(t, err)
		assert.NotContains(t, string(out), "tighten scope")
	}
}

func TestPDFRenderProducesDocument(t *testing.T) {
	out, err := NewPDFRenderer().Render(sampleProposal(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
	assert.NotEmpty(t, out)
}

func TestRenderMalformedContent(t *testing.T) {
	proposal := &models.Proposal{
		Model:   gorm.Model{ID: 9},
		Title:   "Broken",
		Content: []byte("{not json"),
	}

	_, err := NewMarkdownRenderer().Render(proposal)
	assert.Error(t, err)
}

func TestRenderEmptyContent(t *testing.T) {
	proposal := &models.Proposal{Title: "Empty"}

	out, err := NewMarkdownRenderer().Render(proposal)
	require.NoError(t, err)
	assert.Equal(t, "# Empty\n\n", string(out))
}

func TestFormatTitle(t *testing.T) {
	assert.Equal(t, "Proposed Solution", formatTitle("proposed_solution"))
	assert.Equal(t, "Budget", formatTitle("budget"))
	assert.Equal(t, "Why Choose Us", formatTitle("why_choose_us"))
}

func TestFilename(t *testing.T) {
	proposal := &models.Proposal{Title: "Storefront Revamp"}

	assert.Equal(t, "Storefront Revamp_final.pdf", Filename(proposal, "final", "pdf"))
	assert.Equal(t, "Storefront Revamp_preview.md", Filename(proposal, "preview", "md"))
}
