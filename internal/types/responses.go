package types

import (
	"encoding/json"
	"time"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

type UserResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

type ProposalResponse struct {
	ID                 uint                  `json:"id"`
	OwnerID            uint                  `json:"owner_id"`
	Title              string                `json:"title"`
	ProjectDescription string                `json:"project_description"`
	Content            json.RawMessage       `json:"content"`
	Status             models.ProposalStatus `json:"status"`
	CurrentVersion     int                   `json:"current_version"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type ReviewResponse struct {
	ID              uint                  `json:"id"`
	ProposalID      uint                  `json:"proposal_id"`
	ReviewerID      uint                  `json:"reviewer_id"`
	Status          models.ProposalStatus `json:"status"`
	Comments        string                `json:"comments"`
	Recommendations string                `json:"recommendations,omitempty"`
	BDResponse      string                `json:"bd_response,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func NewProposalResponse(proposal *models.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:                 proposal.ID,
		OwnerID:            proposal.OwnerID,
		Title:              proposal.Title,
		ProjectDescription: proposal.ProjectDescription,
		Content:            json.RawMessage(proposal.Content),
		Status:             proposal.Status,
		CurrentVersion:     proposal.CurrentVersion,
		CreatedAt:          proposal.CreatedAt,
		UpdatedAt:          proposal.UpdatedAt,
	}
}

func NewReviewResponse(review *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:              review.ID,
		ProposalID:      review.ProposalID,
		ReviewerID:      review.ReviewerID,
		Status:          review.Status,
		Comments:        review.Comments,
		Recommendations: review.Recommendations,
		BDResponse:      review.BDResponse,
		CreatedAt:       review.CreatedAt,
	}
}
