package workflow

import (
	"context"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

// ProposalFilter narrows List results. Zero values mean "no filter".
type ProposalFilter struct {
	OwnerID uint
	Status  models.ProposalStatus
	Page    int
	Limit   int
}

// Store is the persistence boundary for proposals and reviews. All status
// transitions are compare-and-set on the expected pre-state and must return
// ErrConflict when the observed status no longer matches, so two concurrent
// reviews can never both land.
type Store interface {
	CreateProposal(ctx context.Context, proposal *models.Proposal) error
	GetProposal(ctx context.Context, id uint) (*models.Proposal, error)
	// SaveProposal persists field edits without touching Status.
	SaveProposal(ctx context.Context, proposal *models.Proposal) error
	ListProposals(ctx context.Context, filter ProposalFilter) ([]models.Proposal, int64, error)

	// TransitionProposal moves id from the expected status to the target
	// status, failing with ErrConflict if the row is no longer in from.
	TransitionProposal(ctx context.Context, id uint, from, to models.ProposalStatus) error

	// CreateReviewWithTransition atomically records the review and applies
	// the decision to the proposal's status. The proposal must still be in
	// from when the transaction commits.
	CreateReviewWithTransition(ctx context.Context, review *models.Review, from models.ProposalStatus) error

	ListReviews(ctx context.Context, proposalID uint) ([]models.Review, error)
	LatestReview(ctx context.Context, proposalID uint) (*models.Review, error)
	SaveReview(ctx context.Context, review *models.Review) error
}
