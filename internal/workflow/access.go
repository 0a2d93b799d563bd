package workflow

import "github.com/proposalhub-dev/proposalhub/internal/models"

// Actor is the authenticated caller identity threaded into every operation.
type Actor struct {
	ID   uint
	Role models.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// Operation names a gated action on a proposal.
type Operation string

const (
	OpCreate   Operation = "create"
	OpRead     Operation = "read"
	OpUpdate   Operation = "update"
	OpSubmit   Operation = "submit"
	OpRevise   Operation = "revise"
	OpReview   Operation = "review"
	OpPreview  Operation = "preview"
	OpDownload Operation = "download"
)

// authorize evaluates the role/ownership rule table for an operation against
// a proposal. It is called before any state is touched, so a denial never
// leaves a partial mutation behind. Status checks are separate; this gate
// only answers "may this actor ever do this to this proposal".
func authorize(actor Actor, op Operation, proposal *models.Proposal) error {
	isOwner := proposal != nil && proposal.OwnerID == actor.ID

	switch op {
	case OpCreate:
		if actor.Role != models.RoleBusinessDeveloper {
			return denied("only business developers can create proposals")
		}
	case OpUpdate, OpSubmit, OpRevise:
		if actor.Role != models.RoleBusinessDeveloper {
			return denied("only business developers can modify proposals")
		}
		if !isOwner {
			return denied("proposal belongs to another business developer")
		}
	case OpReview:
		if !actor.IsAdmin() {
			return denied("only admins can review proposals")
		}
	case OpRead, OpPreview, OpDownload:
		if !actor.IsAdmin() && !isOwner {
			return denied("access to this proposal is not permitted")
		}
	default:
		return denied("unknown operation")
	}

	return nil
}
