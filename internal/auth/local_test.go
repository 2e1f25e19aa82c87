package auth

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		testDB = nil
	}

	code := m.Run()

	if testTeardown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = testTeardown(ctx)
	}
	os.Exit(code)
}

// assertValidToken checks the token in resp and returns its claims
func assertValidToken(t *testing.T, resp map[string]interface{}) *Claims {
	t.Helper()
	tokenStr, ok := resp["token"].(string)
	require.True(t, ok, "token not a string")
	claims, err := TestTokenManager().ValidatedToken(tokenStr)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.Subject, "token subject empty")
	assert.Equal(t, resp["_id"], claims.Subject)
	return claims
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

func TestRegisterStudent(t *testing.T) {
	database.SkipWithoutDB(t, testDB)
	dir := t.TempDir()
	handler := NewLocalAuthHandler(testDB, TestTokenManager(), "", NewAuthLogger(true, dir))

	payload := map[string]interface{}{
		"name":     "New Student",
		"email":    uniqueEmail("Student"),
		"password": "password123",
		"branch":   "IT",
		"cgpa":     8.1,
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code, "unexpected status, body: %s", rec.Body.String())

	claims := assertValidToken(t, resp)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.Equal(t, "IT", resp["branch"])
	assert.Equal(t, 8.1, resp["cgpa"])
	assert.NotContains(t, resp, "password")

	logged, err := os.ReadFile(filepath.Join(dir, "auth.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Success")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	database.SkipWithoutDB(t, testDB)
	handler := NewLocalAuthHandler(testDB, TestTokenManager(), "", nil)

	payload := map[string]string{
		"name":     "Copy",
		"email":    database.TestStudent1.Email,
		"password": "password123",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", resp["error"])
}

func TestRegisterValidation(t *testing.T) {
	handler := NewLocalAuthHandler(testDB, TestTokenManager(), "", nil)

	cases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing email", map[string]interface{}{"name": "x", "password": "password123"}},
		{"bad email", map[string]interface{}{"name": "x", "email": "nope", "password": "password123"}},
		{"short password", map[string]interface{}{"name": "x", "email": "short@example.com", "password": "short"}},
		{"unknown role", map[string]interface{}{"name": "x", "email": "r@example.com", "password": "password123", "role": "dean"}},
		{"cgpa out of range", map[string]interface{}{"name": "x", "email": "c@example.com", "password": "password123", "cgpa": 12}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, tc.payload)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterAdminKey(t *testing.T) {
	payload := map[string]string{
		"name":      "Root",
		"email":     uniqueEmail("admin"),
		"password":  "password123",
		"role":      model.RoleAdmin,
		"admin_key": "guess",
	}

	unset := NewLocalAuthHandler(testDB, TestTokenManager(), "", nil)
	rec, _, err := utilities.SimulateAPICall(unset.RegisterHandler, "/register", http.MethodPost, payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	configured := NewLocalAuthHandler(testDB, TestTokenManager(), "s3cret", nil)
	rec, resp, err := utilities.SimulateAPICall(configured.RegisterHandler, "/register", http.MethodPost, payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid admin key", resp["error"])

	database.SkipWithoutDB(t, testDB)
	payload["admin_key"] = "s3cret"
	rec, resp, err = utilities.SimulateAPICall(configured.RegisterHandler, "/register", http.MethodPost, payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleAdmin, assertValidToken(t, resp).Role)
}

func TestLogin(t *testing.T) {
	database.SkipWithoutDB(t, testDB)
	handler := NewLocalAuthHandler(testDB, TestTokenManager(), "", nil)

	t.Run("success with mixed case email", func(t *testing.T) {
		rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
			"email":    "  Recruiter1@Example.com ",
			"password": database.TestSeedPassword,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		claims := assertValidToken(t, resp)
		assert.Equal(t, model.RoleRecruiter, claims.Role)
		assert.Equal(t, "TechNova", resp["company_name"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
			"email":    database.TestStudent1.Email,
			"password": "not-the-password",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password", resp["error"])
	})

	t.Run("unknown email", func(t *testing.T) {
		rec, _, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
			"email":    "nobody@example.com",
			"password": database.TestSeedPassword,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec, _, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
