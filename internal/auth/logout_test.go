package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-portal-backend/internal/model"
)

func TestLogoutSuccess(t *testing.T) {
	tm := TestTokenManager()
	accessToken, claims, err := tm.GenerateStandardToken(model.User{ID: uuid.New(), Role: model.RoleStudent})
	require.NoError(t, err)

	blacklistStore := NewInMemoryBlacklistStore()
	logoutController := NewLogoutController(blacklistStore)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request, err = http.NewRequest(http.MethodPost, "/logout", nil)
	require.NoError(t, err)
	c.Request.Header.Set("Authorization", "Bearer "+accessToken)
	// RequireAuth would normally set this
	c.Set("claims", claims)

	logoutController.LogoutHandler(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Successfully logged out", resp["message"])

	isBlacklisted, err := blacklistStore.IsBlacklisted(context.Background(), claims.ID)
	assert.NoError(t, err)
	assert.True(t, isBlacklisted, "Token should be blacklisted after logout")
}

func TestLogoutMissingToken(t *testing.T) {
	logoutController := NewLogoutController(NewInMemoryBlacklistStore())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var err error
	c.Request, err = http.NewRequest(http.MethodPost, "/logout", nil)
	require.NoError(t, err)

	logoutController.LogoutHandler(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "authorization header")
}

func TestLogoutMissingClaims(t *testing.T) {
	logoutController := NewLogoutController(NewInMemoryBlacklistStore())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var err error
	c.Request, err = http.NewRequest(http.MethodPost, "/logout", nil)
	require.NoError(t, err)
	c.Request.Header.Set("Authorization", "Bearer some.token.value")

	logoutController.LogoutHandler(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
