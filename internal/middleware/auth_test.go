package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proposalhub-dev/proposalhub/internal/auth"
	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/types"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/me", AuthMiddleware(), func(ctx *gin.Context) {
		user := ctx.MustGet(types.ContextUserKey).(AuthenticatedUser)
		ctx.JSON(http.StatusOK, gin.H{"username": user.Username})
	})

	return router
}

func stubUserLookup(t *testing.T, stub func(userID uint) (*models.User, error)) {
	t.Helper()

	original := findUserByID
	findUserByID = stub
	t.Cleanup(func() { findUserByID = original })
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddlewareLoadsActiveUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	token, err := auth.GenerateJWT(7, models.RoleBusinessDeveloper)
	require.NoError(t, err)

	stubUserLookup(t, func(userID uint) (*models.User, error) {
		return &models.User{
			Model:    gorm.Model{ID: userID},
			Username: "alice",
			Role:     models.RoleBusinessDeveloper,
			IsActive: true,
		}, nil
	})

	recorder := httptest.NewRecorder()
	authRouter().ServeHTTP(recorder, bearerRequest(token))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "alice")
}

func TestAuthMiddlewareRejectsInactiveUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	token, err := auth.GenerateJWT(7, models.RoleBusinessDeveloper)
	require.NoError(t, err)

	stubUserLookup(t, func(userID uint) (*models.User, error) {
		return &models.User{
			Model:    gorm.Model{ID: userID},
			Username: "alice",
			Role:     models.RoleBusinessDeveloper,
			IsActive: false,
		}, nil
	})

	recorder := httptest.NewRecorder()
	authRouter().ServeHTTP(recorder, bearerRequest(token))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "disabled")
}

func TestAuthMiddlewareRejectsUnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	token, err := auth.GenerateJWT(404, models.RoleBusinessDeveloper)
	require.NoError(t, err)

	stubUserLookup(t, func(userID uint) (*models.User, error) {
		return nil, gorm.ErrRecordNotFound
	})

	recorder := httptest.NewRecorder()
	authRouter().ServeHTTP(recorder, bearerRequest(token))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	recorder := httptest.NewRecorder()
	authRouter().ServeHTTP(recorder, bearerRequest("not-a-jwt"))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func roleRouter(current *AuthenticatedUser, allowed ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/guarded",
		func(ctx *gin.Context) {
			if current != nil {
				ctx.Set(types.ContextUserKey, *current)
			}
		},
		RequireRoles(allowed...),
		func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
		},
	)

	return router
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	user := &AuthenticatedUser{ID: 1, Username: "root", Role: models.RoleAdmin}
	router := roleRouter(user, models.RoleAdmin)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	user := &AuthenticatedUser{ID: 2, Username: "alice", Role: models.RoleBusinessDeveloper}
	router := roleRouter(user, models.RoleAdmin)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Insufficient permissions")
}

func TestRequireRolesWithoutAuthenticatedUser(t *testing.T) {
	router := roleRouter(nil, models.RoleAdmin)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
