package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proposalhub-dev/proposalhub/internal/types"
	"github.com/proposalhub-dev/proposalhub/internal/utils"
	"github.com/proposalhub-dev/proposalhub/internal/workflow"
)

type CreateProposalRequest struct {
	Title              string `json:"title" binding:"required"`
	ProjectDescription string `json:"project_description" binding:"required"`
}

type UpdateProposalRequest struct {
	Title              *string         `json:"title"`
	ProjectDescription *string         `json:"project_description"`
	Content            json.RawMessage `json:"content"`
}

type ReviseProposalRequest struct {
	BDResponse string `json:"bd_response"`
}

// ListMyProposals returns the caller's proposals, optionally filtered by
// status.
func ListMyProposals(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter := proposalFilterFromQuery(ctx)

	proposals, total, err := workflowSvc.List(ctx.Request.Context(), actor, filter)

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	response := make([]types.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		response = append(response, types.NewProposalResponse(&proposals[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"proposals": response,
		"total":     total,
		"page":      filter.Page,
		"limit":     filter.Limit,
	})
}

// CreateProposal drafts a new proposal with generated template content.
func CreateProposal(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateProposalRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title and project description are required"})
		return
	}

	proposal, err := workflowSvc.Create(ctx.Request.Context(), actor, req.Title, req.ProjectDescription)

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	BroadcastProposalEvent(proposal.OwnerID, "created", proposal.ID)

	ctx.JSON(http.StatusCreated, gin.H{"proposal": types.NewProposalResponse(proposal)})
}

// UpdateProposal edits an editable proposal's fields.
func UpdateProposal(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProposalRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	proposalID, err := parseProposalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	proposal, err := workflowSvc.Update(ctx.Request.Context(), actor, proposalID, workflow.UpdateFields{
		Title:              req.Title,
		ProjectDescription: req.ProjectDescription,
		Content:            req.Content,
	})

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"proposal": types.NewProposalResponse(proposal)})
}

// SubmitProposal moves a draft or revision_requested proposal into the
// review queue.
func SubmitProposal(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	actor := workflow.Actor{ID: currentUser.ID, Role: currentUser.Role}

	proposalID, err := parseProposalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	proposal, err := workflowSvc.Submit(ctx.Request.Context(), actor, proposalID)

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	go func() {
		if err := notifier.ProposalSubmitted(proposal, currentUser.Username); err != nil {
			log.Printf("Failed to send submission notification: %v", err)
		}
	}()

	BroadcastProposalEvent(proposal.OwnerID, "submitted", proposal.ID)

	ctx.JSON(http.StatusOK, gin.H{"proposal": types.NewProposalResponse(proposal)})
}

// ListProposalReviews returns the review history of one of the caller's
// proposals, oldest first.
func ListProposalReviews(ctx *gin.Context) {
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

	reviews, err := workflowSvc.ListReviews(ctx.Request.Context(), actor, proposalID)

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	response := make([]types.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		response = append(response, types.NewReviewResponse(&reviews[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"reviews": response})
}

// ReviseProposal records the caller's response to the latest review and
// regenerates the template content.
func ReviseProposal(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ReviseProposalRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	proposalID, err := parseProposalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	proposal, review, err := workflowSvc.Revise(ctx.Request.Context(), actor, proposalID, req.BDResponse)

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	BroadcastProposalEvent(proposal.OwnerID, "revised", proposal.ID)

	ctx.JSON(http.StatusOK, gin.H{
		"proposal": types.NewProposalResponse(proposal),
		"review":   types.NewReviewResponse(review),
	})
}
