package auth

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/utilities"
)

// TestSecretKey signs tokens issued by TestTokenManager
const TestSecretKey = "test-secret-key"

// TestTokenManager returns the TokenManager shared by handler tests
func TestTokenManager() *TokenManager {
	return NewTokenManager(TestSecretKey, time.Hour)
}

// GetAccessToken logs a seeded user in through LoginHandler and returns the issued token.
func GetAccessToken(
	t *testing.T,
	db *database.DBinstanceStruct,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(db, TestTokenManager(), "", nil)
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	token, ok := resp["token"].(string)
	if !ok {
		return "", fmt.Errorf("login Failed: no token in response: %s", rec.Body.String())
	}
	return token, nil
}
