package workflow

import "github.com/proposalhub-dev/proposalhub/internal/models"

// transitions is the single source of truth for legal status edges. Anything
// absent here is rejected; approved and rejected are terminal.
var transitions = map[models.ProposalStatus][]models.ProposalStatus{
	models.StatusDraft:             {models.StatusSubmitted},
	models.StatusSubmitted:         {models.StatusUnderReview, models.StatusApproved, models.StatusRejected, models.StatusRevisionRequested},
	models.StatusUnderReview:       {models.StatusApproved, models.StatusRejected, models.StatusRevisionRequested},
	models.StatusRevisionRequested: {models.StatusSubmitted},
	models.StatusApproved:          {},
	models.StatusRejected:          {},
}

// CanTransition reports whether the edge from -> to exists in the lifecycle.
func CanTransition(from, to models.ProposalStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Editable reports whether the owner may modify the proposal's fields or
// template content in the given status.
func Editable(status models.ProposalStatus) bool {
	return status == models.StatusDraft || status == models.StatusRevisionRequested
}

// Reviewable reports whether an admin may record a decision in the given
// status. Submitted and under_review are equivalent for review eligibility.
func Reviewable(status models.ProposalStatus) bool {
	return status == models.StatusSubmitted || status == models.StatusUnderReview
}

// ValidDecision reports whether a review decision status is one of the
// closed set an admin may record.
func ValidDecision(status models.ProposalStatus) bool {
	return status == models.StatusApproved || status == models.StatusRejected || status == models.StatusRevisionRequested
}
