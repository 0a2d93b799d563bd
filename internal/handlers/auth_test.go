package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proposalhub-dev/proposalhub/internal/auth"
	"github.com/proposalhub-dev/proposalhub/internal/models"
)

func loginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/login", Login)
	return router
}

func stubLoginLookup(t *testing.T, stub func(username string) (*models.User, error)) {
	t.Helper()

	original := findUserByUsername
	findUserByUsername = stub
	t.Cleanup(func() { findUserByUsername = original })
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestLoginIssuesTokenForActiveUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)

	stubLoginLookup(t, func(username string) (*models.User, error) {
		return &models.User{
			Model:        gorm.Model{ID: 3},
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleBusinessDeveloper,
			IsActive:     true,
		}, nil
	})

	recorder := postLogin(loginRouter(), `{"username":"alice","password":"correct-password"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "token")
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)

	stubLoginLookup(t, func(username string) (*models.User, error) {
		return &models.User{
			Model:        gorm.Model{ID: 3},
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleBusinessDeveloper,
			IsActive:     false,
		}, nil
	})

	// The right password still fails for a disabled account.
	recorder := postLogin(loginRouter(), `{"username":"alice","password":"correct-password"}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid credentials")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)

	stubLoginLookup(t, func(username string) (*models.User, error) {
		return &models.User{
			Model:        gorm.Model{ID: 3},
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleBusinessDeveloper,
			IsActive:     true,
		}, nil
	})

	recorder := postLogin(loginRouter(), `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid credentials")
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	stubLoginLookup(t, func(username string) (*models.User, error) {
		return nil, gorm.ErrRecordNotFound
	})

	recorder := postLogin(loginRouter(), `{"username":"ghost","password":"whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid credentials")
}
