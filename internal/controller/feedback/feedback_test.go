package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/testutil"
	"placement-portal-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	teardown, db, err := database.GetTestDB()
	if err != nil {
		slog.Warn("could not start postgres container, feedback tests will be skipped", slog.Any("error", err))
	}
	testDB = db

	code := m.Run()

	if teardown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = teardown(ctx)
	}
	os.Exit(code)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	database.SkipWithoutDB(t, testDB)
	t.Cleanup(func() { testDB.Where("1 = 1").Delete(&model.Feedback{}) })

	fc := NewFeedbackController(testDB, utilities.PageLimits{})
	r := gin.New()
	g := r.Group("/feedback")
	g.POST("", testutil.Handlers(testDB, fc.SubmitFeedback, model.RoleStudent)...)
	g.GET("/my", testutil.Handlers(testDB, fc.MyFeedback, model.RoleStudent)...)
	g.GET("/all", testutil.Handlers(testDB, fc.AllFeedback, model.RoleAdmin)...)
	r.DELETE("/admin/feedback/:id", testutil.Handlers(testDB, fc.DeleteFeedback, model.RoleAdmin)...)
	return r
}

func TestSubmitFeedback(t *testing.T) {
	r := newRouter(t)
	token := testutil.TokenFor(t, database.TestStudent1)

	rec, resp := testutil.MakeJSONRequest(gin.H{"company_name": "TechNova", "feedback_text": "Smooth interview"}, token, r, "/feedback", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, database.TestStudent1.ID.String(), resp["student_id"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"company_name": "TechNova"}, token, r, "/feedback", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Company name and feedback text are required", resp["error"])

	rec, _ = testutil.MakeJSONRequest(gin.H{"company_name": "X", "feedback_text": "Y"}, testutil.TokenFor(t, database.TestRecruiter1), r, "/feedback", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListAndDeleteFeedback(t *testing.T) {
	r := newRouter(t)
	for i, student := range []model.User{database.TestStudent1, database.TestStudent1, database.TestStudent2} {
		fb := model.Feedback{StudentID: student.ID, CompanyName: "DataForge", FeedbackText: fmt.Sprintf("note %d", i)}
		require.NoError(t, testDB.Create(&fb).Error)
	}

	rec, _ := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent1), r, "/feedback/my", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []model.Feedback
	testutil.DecodeJSON(t, rec, &mine)
	assert.Len(t, mine, 2)

	adminToken := testutil.TokenFor(t, database.TestAdminUser)
	rec, _ = testutil.MakeJSONRequest(nil, adminToken, r, "/feedback/all?limit=2", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	var page ListResponse
	testutil.DecodeJSON(t, rec, &page)
	require.Len(t, page.Feedback, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Pages)
	require.NotNil(t, page.Feedback[0].Student)

	rec, _ = testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent1), r, "/feedback/all", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	path := fmt.Sprintf("/admin/feedback/%d", mine[0].ID)
	rec, _ = testutil.MakeJSONRequest(nil, adminToken, r, path, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = testutil.MakeJSONRequest(nil, adminToken, r, path, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
