// Package workflow owns the proposal lifecycle: the status state machine,
// the role/ownership access gate and the operations that move a proposal
// through drafting, submission, review and revision.
package workflow

import (
	"errors"
	"fmt"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

// Sentinel errors for workflow operations.
var (
	// ErrNotFound signals an unknown proposal or review id.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a lost compare-and-set race: the proposal status
	// changed between read and transition. Callers should refetch and retry.
	ErrConflict = errors.New("proposal was modified concurrently")
)

// ValidationError reports malformed or missing input. The message is safe to
// surface verbatim to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthorizationError reports a role or ownership violation. No proposal state
// is leaked beyond the denial itself.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// InvalidStateError reports an operation that is not valid for the proposal's
// current lifecycle status. The current status is included so the actor
// understands why.
type InvalidStateError struct {
	Op     string
	Status models.ProposalStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s proposal in status %q", e.Op, e.Status)
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func denied(msg string) error {
	return &AuthorizationError{Msg: msg}
}

func invalidState(op string, status models.ProposalStatus) error {
	return &InvalidStateError{Op: op, Status: status}
}
