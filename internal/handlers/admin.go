package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/proposalhub-dev/proposalhub/db"
	"github.com/proposalhub-dev/proposalhub/internal/auth"
	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/types"
	"github.com/proposalhub-dev/proposalhub/internal/utils"
	"github.com/proposalhub-dev/proposalhub/internal/workflow"
	"gorm.io/gorm"
)

type ReviewProposalRequest struct {
	Status          models.ProposalStatus `json:"status" binding:"required"`
	Comments        string                `json:"comments" binding:"required"`
	Recommendations string                `json:"recommendations"`
}

type CreateBDUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// ListAllProposals returns every proposal, optionally filtered by status.
// Admin only; the route group enforces the role.
func ListAllProposals(ctx *gin.Context) {
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

// ReviewProposal records an admin decision and applies it to the proposal.
func ReviewProposal(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	actor := workflow.Actor{ID: currentUser.ID, Role: currentUser.Role}

	var req ReviewProposalRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Comments and status are required"})
		return
	}

	proposalID, err := parseProposalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	review, proposal, err := workflowSvc.Review(ctx.Request.Context(), actor, proposalID, workflow.Decision{
		Status:          req.Status,
		Comments:        req.Comments,
		Recommendations: req.Recommendations,
	})

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	go func() {
		if err := notifier.ReviewDecision(proposal, review, currentUser.Username); err != nil {
			log.Printf("Failed to send review notification: %v", err)
		}
	}()

	BroadcastProposalEvent(proposal.OwnerID, "reviewed", proposal.ID)

	ctx.JSON(http.StatusOK, gin.H{
		"review":   types.NewReviewResponse(review),
		"proposal": types.NewProposalResponse(proposal),
	})
}

// MarkUnderReview flags a submitted proposal as picked up by an admin.
func MarkUnderReview(ctx *gin.Context) {
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

	proposal, err := workflowSvc.MarkUnderReview(ctx.Request.Context(), actor, proposalID)

	if err != nil {
		respondWorkflowError(ctx, err)
		return
	}

	BroadcastProposalEvent(proposal.OwnerID, "under_review", proposal.ID)

	ctx.JSON(http.StatusOK, gin.H{"proposal": types.NewProposalResponse(proposal)})
}

// CreateBDUser provisions a business developer account with a generated
// initial password, returned in the response exactly once.
func CreateBDUser(ctx *gin.Context) {
	var req CreateBDUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username and email are required"})
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err := db.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	password, err := auth.GeneratePassword()

	if err != nil {
		log.Printf("Failed to generate password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := auth.HashPassword(password)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleBusinessDeveloper,
		IsActive:     true,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create BD user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user":     types.NewUserResponse(&user),
		"password": password,
	})
}

// ListBDUsers returns all business developer accounts.
func ListBDUsers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Where("role = ?", models.RoleBusinessDeveloper).Order("created_at ASC").Find(&users).Error; err != nil {
		log.Printf("Failed to list BD users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))
	for i := range users {
		response = append(response, types.NewUserResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"users": response})
}

func parseProposalID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func proposalFilterFromQuery(ctx *gin.Context) workflow.ProposalFilter {
	filter := workflow.ProposalFilter{
		Status: models.ProposalStatus(ctx.Query("status")),
		Page:   1,
		Limit:  10,
	}

	if page, err := strconv.Atoi(ctx.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}

	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	return filter
}
