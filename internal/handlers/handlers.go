package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proposalhub-dev/proposalhub/internal/notify"
	"github.com/proposalhub-dev/proposalhub/internal/workflow"
)

var (
	workflowSvc *workflow.Service
	notifier    *notify.Notifier
)

// Init wires the handler package's collaborators. Called once from main
// before the router starts serving.
func Init(svc *workflow.Service, n *notify.Notifier) {
	workflowSvc = svc
	notifier = n
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses:
// validation 400, authorization 403, invalid state and conflicts 409,
// unknown ids 404, everything else 500.
func respondWorkflowError(ctx *gin.Context, err error) {
	var validationErr *workflow.ValidationError
	var authorizationErr *workflow.AuthorizationError
	var stateErr *workflow.InvalidStateError

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Msg})
	case errors.As(err, &authorizationErr):
		ctx.JSON(http.StatusForbidden, gin.H{"error": authorizationErr.Msg})
	case errors.As(err, &stateErr):
		ctx.JSON(http.StatusConflict, gin.H{"error": stateErr.Error()})
	case errors.Is(err, workflow.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Proposal was modified concurrently, please retry"})
	case errors.Is(err, workflow.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
	default:
		log.Printf("Workflow operation failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
