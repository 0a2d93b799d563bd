package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proposalhub-dev/proposalhub/internal/documents"
	"github.com/proposalhub-dev/proposalhub/internal/llm"
	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/utils"
	"github.com/proposalhub-dev/proposalhub/internal/workflow"
)

type UpdateTemplateRequest struct {
	Template json.RawMessage `json:"template" binding:"required"`
}

var renderers = map[string]documents.Renderer{
	"pdf":      documents.NewPDFRenderer(),
	"markdown": documents.NewMarkdownRenderer(),
}

// PreviewDocument renders a proposal in any status for its owner or an
// admin.
func PreviewDocument(ctx *gin.Context) {
	serveDocument(ctx, "preview", false)
}

// DownloadDocument renders the final artifact; only approved proposals can
// be downloaded.
func DownloadDocument(ctx *gin.Context) {
	serveDocument(ctx, "final", true)
}

func serveDocument(ctx *gin.Context, suffix string, download bool) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	proposalID, err := parseProposalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	renderer, ok := renderers[ctx.Param("format")]

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown document format"})
		return
	}

	var proposal *models.Proposal

	if download {
		proposal, err = workflowSvc.ForDownload(ctx.Request.Context(), actor, proposalID)
	} else {
		proposal, err = workflowSvc.ForPreview(ctx.Request.Context(), actor, proposalID)
	}

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	artifact, err := renderer.Render(proposal)

	if err != nil {
		log.Printf("Failed to render document for proposal %d: %v", proposal.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate document"})
		return
	}

	disposition := "inline"
	if download {
		disposition = "attachment"
	}

	filename := documents.Filename(proposal, suffix, renderer.Extension())
	ctx.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	ctx.Data(http.StatusOK, renderer.ContentType(), artifact)
}

// GetTemplate returns the proposal's raw template JSON for editing.
func GetTemplate(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	proposalID, err := parseProposalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	proposal, err := workflowSvc.Get(ctx.Request.Context(), actor, proposalID)

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"template": json.RawMessage(proposal.Content),
		"proposal_info": gin.H{
			"id":      proposal.ID,
			"title":   proposal.Title,
			"status":  proposal.Status,
			"version": proposal.CurrentVersion,
		},
	})
}

// UpdateTemplate replaces the proposal's template JSON. Owner only, editable
// states only.
func UpdateTemplate(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateTemplateRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Valid template JSON is required"})
		return
	}

	proposalID, err := parseProposalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	proposal, err := workflowSvc.Update(ctx.Request.Context(), actor, proposalID, workflow.UpdateFields{
		Content: req.Template,
	})

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Template updated successfully",
		"template": json.RawMessage(proposal.Content),
	})
}

// DefaultTemplate returns the static template structure used as an editing
// starting point.
func DefaultTemplate(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"template": llm.DefaultTemplate()})
}
