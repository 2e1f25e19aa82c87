// Package testutil provides utility functions for testing HTTP handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"placement-portal-backend/internal/auth"
	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/middleware"
	"placement-portal-backend/internal/model"
)

// MakeJSONRequest is a helper function for making JSON requests in tests.
// A nil body sends no payload and an empty authToken sends no Authorization header.
func MakeJSONRequest(body interface{}, authToken string, r http.Handler, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, endpoint, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// AuthChain returns RequireAuth over db followed by CheckRole when roles are given
func AuthChain(db *database.DBinstanceStruct, roles ...string) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.RequireAuth(database.NewStore(db), auth.TestTokenManager())}
	if len(roles) > 0 {
		chain = append(chain, middleware.CheckRole(roles...))
	}
	return chain
}

// Handlers appends h to the auth chain
func Handlers(db *database.DBinstanceStruct, h gin.HandlerFunc, roles ...string) []gin.HandlerFunc {
	return append(AuthChain(db, roles...), h)
}

// TokenFor issues an access token for user signed with the test secret
func TokenFor(t *testing.T, user model.User) string {
	t.Helper()
	token, _, err := auth.TestTokenManager().GenerateStandardToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// DecodeJSON unmarshals the recorded body into v
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// StringPtr is a helper function to get a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr is a helper function to get a pointer to a float64
func Float64Ptr(f float64) *float64 {
	return &f
}
