package workflow

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/proposalhub-dev/proposalhub/internal/models"
	"gorm.io/datatypes"
)

// TemplateGenerator produces and revises the structured proposal template
// content. Implemented by the Groq-backed client in internal/llm.
type TemplateGenerator interface {
	Generate(ctx context.Context, projectDescription string) (json.RawMessage, error)
	Regenerate(ctx context.Context, current json.RawMessage, recommendations, bdResponse string) (json.RawMessage, error)
}

// Service implements the proposal lifecycle operations. Every operation takes
// the caller's Actor explicitly and evaluates the access gate before touching
// any state.
type Service struct {
	store     Store
	templates TemplateGenerator
}

func NewService(store Store, templates TemplateGenerator) *Service {
	return &Service{store: store, templates: templates}
}

// Create drafts a new proposal for a business developer. The template content
// is generated from the project description at creation time.
func (s *Service) Create(ctx context.Context, actor Actor, title, projectDescription string) (*models.Proposal, error) {
	if err := authorize(actor, OpCreate, nil); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	projectDescription = strings.TrimSpace(projectDescription)

	if title == "" {
		return nil, validationf("title is required")
	}

	if projectDescription == "" {
		return nil, validationf("project description is required")
	}

	content, err := s.templates.Generate(ctx, projectDescription)
	if err != nil {
		return nil, err
	}

	proposal := &models.Proposal{
		OwnerID:            actor.ID,
		Title:              title,
		ProjectDescription: projectDescription,
		Content:            datatypes.JSON(content),
		Status:             models.StatusDraft,
		CurrentVersion:     1,
	}

	if err := s.store.CreateProposal(ctx, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// UpdateFields carries the owner-editable proposal fields. Nil pointers leave
// the field untouched.
type UpdateFields struct {
	Title              *string
	ProjectDescription *string
	Content            json.RawMessage
}

// Update edits a proposal's fields. Only the owner may edit, and only while
// the proposal is in an editable status.
func (s *Service) Update(ctx context.Context, actor Actor, id uint, fields UpdateFields) (*models.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, OpUpdate, proposal); err != nil {
		return nil, err
	}

	if !Editable(proposal.Status) {
		return nil, invalidState("update", proposal.Status)
	}

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, validationf("title is required")
		}
		proposal.Title = title
	}

	if fields.ProjectDescription != nil {
		description := strings.TrimSpace(*fields.ProjectDescription)
		if description == "" {
			return nil, validationf("project description is required")
		}
		proposal.ProjectDescription = description
	}

	if fields.Content != nil {
		if !json.Valid(fields.Content) {
			return nil, validationf("template content must be valid JSON")
		}
		proposal.Content = datatypes.JSON(fields.Content)
	}

	if err := s.store.SaveProposal(ctx, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// Submit transitions a draft or revision_requested proposal to submitted.
func (s *Service) Submit(ctx context.Context, actor Actor, id uint) (*models.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, OpSubmit, proposal); err != nil {
		return nil, err
	}

	if !CanTransition(proposal.Status, models.StatusSubmitted) {
		return nil, invalidState("submit", proposal.Status)
	}

	if err := s.store.TransitionProposal(ctx, proposal.ID, proposal.Status, models.StatusSubmitted); err != nil {
		return nil, err
	}

	proposal.Status = models.StatusSubmitted
	return proposal, nil
}

// Get returns a single proposal, gated by the read rule.
func (s *Service) Get(ctx context.Context, actor Actor, id uint) (*models.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, OpRead, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// List returns proposals visible to the actor: admins see all, business
// developers only their own. Ordered newest-first.
func (s *Service) List(ctx context.Context, actor Actor, filter ProposalFilter) ([]models.Proposal, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, validationf("unknown status %q", filter.Status)
	}

	if !actor.IsAdmin() {
		filter.OwnerID = actor.ID
	}

	return s.store.ListProposals(ctx, filter)
}

// MarkUnderReview is the optional housekeeping transition submitted ->
// under_review, signalling that an admin has picked the proposal up.
func (s *Service) MarkUnderReview(ctx context.Context, actor Actor, id uint) (*models.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, OpReview, proposal); err != nil {
		return nil, err
	}

	if !CanTransition(proposal.Status, models.StatusUnderReview) {
		return nil, invalidState("mark under review", proposal.Status)
	}

	if err := s.store.TransitionProposal(ctx, proposal.ID, proposal.Status, models.StatusUnderReview); err != nil {
		return nil, err
	}

	proposal.Status = models.StatusUnderReview
	return proposal, nil
}

// Decision is an admin's verdict on a submitted proposal.
type Decision struct {
	Status          models.ProposalStatus
	Comments        string
	Recommendations string
}

// Review records an admin decision and applies it to the proposal status in
// one transaction. Valid only while the proposal is submitted or under_review.
func (s *Service) Review(ctx context.Context, actor Actor, id uint, decision Decision) (*models.Review, *models.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := authorize(actor, OpReview, proposal); err != nil {
		return nil, nil, err
	}

	if !ValidDecision(decision.Status) {
		return nil, nil, validationf("decision status must be approved, rejected or revision_requested")
	}

	if strings.TrimSpace(decision.Comments) == "" {
		return nil, nil, validationf("comments are required")
	}

	if !Reviewable(proposal.Status) {
		return nil, nil, invalidState("review", proposal.Status)
	}

	review := &models.Review{
		ProposalID:      proposal.ID,
		ReviewerID:      actor.ID,
		Status:          decision.Status,
		Comments:        decision.Comments,
		Recommendations: decision.Recommendations,
	}

	if err := s.store.CreateReviewWithTransition(ctx, review, proposal.Status); err != nil {
		return nil, nil, err
	}

	proposal.Status = decision.Status
	return review, proposal, nil
}

// ListReviews returns a proposal's review history oldest-first. Readable by
// the owner or any admin.
func (s *Service) ListReviews(ctx context.Context, actor Actor, proposalID uint) ([]models.Review, error) {
	proposal, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, OpRead, proposal); err != nil {
		return nil, err
	}

	return s.store.ListReviews(ctx, proposalID)
}

// Revise records the owner's response to the latest review and regenerates
// the template content from the reviewer's recommendations. The proposal
// stays in revision_requested; the owner leaves that status via Submit.
func (s *Service) Revise(ctx context.Context, actor Actor, id uint, bdResponse string) (*models.Proposal, *models.Review, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := authorize(actor, OpRevise, proposal); err != nil {
		return nil, nil, err
	}

	if proposal.Status != models.StatusRevisionRequested {
		return nil, nil, invalidState("revise", proposal.Status)
	}

	latest, err := s.store.LatestReview(ctx, proposal.ID)
	if err != nil {
		return nil, nil, err
	}

	if latest == nil {
		return nil, nil, validationf("proposal has no reviews to revise against")
	}

	latest.BDResponse = bdResponse
	if err := s.store.SaveReview(ctx, latest); err != nil {
		return nil, nil, err
	}

	content, err := s.templates.Regenerate(ctx, json.RawMessage(proposal.Content), latest.Recommendations, bdResponse)
	if err != nil {
		return nil, nil, err
	}

	proposal.Content = datatypes.JSON(content)
	proposal.CurrentVersion++

	if err := s.store.SaveProposal(ctx, proposal); err != nil {
		return nil, nil, err
	}

	return proposal, latest, nil
}

// ForPreview returns the proposal if the actor may preview its document.
// Preview works in any status, including drafts.
func (s *Service) ForPreview(ctx context.Context, actor Actor, id uint) (*models.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, OpPreview, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// ForDownload returns the proposal if the actor may download its final
// document, which requires the proposal to be approved.
func (s *Service) ForDownload(ctx context.Context, actor Actor, id uint) (*models.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, OpDownload, proposal); err != nil {
		return nil, err
	}

	if proposal.Status != models.StatusApproved {
		return nil, invalidState("download", proposal.Status)
	}

	return proposal, nil
}
