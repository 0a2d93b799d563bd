package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/proposalhub-dev/proposalhub/internal/middleware"
	"github.com/proposalhub-dev/proposalhub/internal/types"
	"github.com/proposalhub-dev/proposalhub/internal/workflow"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetActor returns the workflow identity of the authenticated caller.
func GetActor(ctx *gin.Context) (workflow.Actor, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return workflow.Actor{}, err
	}

	return workflow.Actor{ID: user.ID, Role: user.Role}, nil
}
