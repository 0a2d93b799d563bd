package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalhub-dev/proposalhub/internal/middleware"
	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/types"
)

func testContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	return ctx
}

func TestGetCurrentUserMissing(t *testing.T) {
	ctx := testContext()

	_, err := GetCurrentUser(ctx)
	assert.Error(t, err)

	_, err = GetCurrentUserID(ctx)
	assert.Error(t, err)

	_, err = GetActor(ctx)
	assert.Error(t, err)
}

func TestGetActor(t *testing.T) {
	ctx := testContext()
	ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
		ID:       5,
		Username: "alice",
		Role:     models.RoleBusinessDeveloper,
	})

	actor, err := GetActor(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(5), actor.ID)
	assert.Equal(t, models.RoleBusinessDeveloper, actor.Role)
	assert.False(t, actor.IsAdmin())
}
