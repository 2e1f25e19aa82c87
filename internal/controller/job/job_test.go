package job

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
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/testutil"
	"placement-portal-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	teardown, db, err := database.GetTestDB()
	if err != nil {
		slog.Warn("could not start postgres container, job tests will be skipped", slog.Any("error", err))
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

	jc := NewJobController(testDB, utilities.PageLimits{})
	r := gin.New()
	g := r.Group("/jobs")
	g.GET("", testutil.Handlers(testDB, jc.ListJobs)...)
	g.POST("", testutil.Handlers(testDB, jc.CreateJob, model.RoleRecruiter)...)
	g.GET("/myjobs", testutil.Handlers(testDB, jc.MyJobs, model.RoleRecruiter)...)
	g.GET("/:id", testutil.Handlers(testDB, jc.GetJob)...)
	g.PUT("/:id", testutil.Handlers(testDB, jc.UpdateJob, model.RoleRecruiter, model.RoleAdmin)...)
	g.DELETE("/:id", testutil.Handlers(testDB, jc.DeleteJob, model.RoleRecruiter, model.RoleAdmin)...)
	return r
}

func seedJob(t *testing.T, owner model.User, title string) model.Job {
	t.Helper()
	job := model.Job{
		CompanyID: owner.ID,
		EditableJobInfo: model.EditableJobInfo{
			Title:          title,
			Description:    "Temporary posting",
			CriteriaBranch: "Mechanical",
		},
	}
	require.NoError(t, testDB.Create(&job).Error)
	t.Cleanup(func() { testDB.Delete(&model.Job{}, job.ID) })
	return job
}

func TestCreateJob(t *testing.T) {
	r := newRouter(t)
	token := testutil.TokenFor(t, database.TestRecruiter2)

	body := gin.H{
		"title":           "Data Analyst",
		"description":     "SQL and dashboards",
		"criteria_branch": "Any",
		"criteria_cgpa":   "7.25",
	}
	rec, _ := testutil.MakeJSONRequest(body, token, r, "/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp model.JobResponse
	testutil.DecodeJSON(t, rec, &resp)
	t.Cleanup(func() { testDB.Delete(&model.Job{}, resp.ID) })

	assert.Equal(t, database.TestRecruiter2.ID, resp.CompanyID)
	assert.Equal(t, "DataForge", resp.CompanyName)
	require.NotNil(t, resp.CriteriaCGPA)
	assert.InDelta(t, 7.25, *resp.CriteriaCGPA, 0.001)

	t.Run("missing description", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{"title": "Only a title"}, token, r, "/jobs", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Title and description are required", resp["error"])
	})

	t.Run("student", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(body, testutil.TokenFor(t, database.TestStudent1), r, "/jobs", http.MethodPost)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestListJobs(t *testing.T) {
	r := newRouter(t)
	token := testutil.TokenFor(t, database.TestStudent1)

	list := func(t *testing.T, query string) ListResponse {
		t.Helper()
		rec, _ := testutil.MakeJSONRequest(nil, token, r, "/jobs"+query, http.MethodGet)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp ListResponse
		testutil.DecodeJSON(t, rec, &resp)
		return resp
	}

	t.Run("all", func(t *testing.T) {
		resp := list(t, "")
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, 1, resp.Page.Page)
	})

	ids := func(resp ListResponse) []uint {
		out := make([]uint, 0, len(resp.Jobs))
		for _, j := range resp.Jobs {
			out = append(out, j.ID)
		}
		return out
	}

	t.Run("branch keeps jobs open to it", func(t *testing.T) {
		assert.ElementsMatch(t, []uint{database.TestJob2.ID, database.TestJob3.ID}, ids(list(t, "?branch=ece")))
		assert.ElementsMatch(t, []uint{database.TestJob1.ID, database.TestJob2.ID}, ids(list(t, "?branch=IT")))
	})

	t.Run("branch reads comma and pipe lists", func(t *testing.T) {
		job := seedJob(t, database.TestRecruiter2, "Plant Trainee")
		require.NoError(t, testDB.Model(&job).Update("criteria_branch", " ME | Civil ").Error)
		open := seedJob(t, database.TestRecruiter2, "Open Trainee")
		require.NoError(t, testDB.Model(&open).Update("criteria_branch", "").Error)

		assert.ElementsMatch(t, []uint{job.ID, open.ID, database.TestJob2.ID}, ids(list(t, "?branch=civil")))
		assert.NotContains(t, ids(list(t, "?branch=mech")), job.ID)
	})

	t.Run("cgpa keeps jobs without a minimum", func(t *testing.T) {
		assert.ElementsMatch(t, []uint{database.TestJob1.ID, database.TestJob2.ID, database.TestJob3.ID}, ids(list(t, "?cgpa=8")))
		assert.ElementsMatch(t, []uint{database.TestJob2.ID, database.TestJob3.ID}, ids(list(t, "?cgpa=7")))
	})

	t.Run("filters agree with eligibility", func(t *testing.T) {
		resp := list(t, "?branch=cse&cgpa=7")
		require.Len(t, resp.Jobs, 1)
		assert.Equal(t, database.TestJob2.ID, resp.Jobs[0].ID)
		for _, j := range []model.Job{database.TestJob1, database.TestJob2} {
			want := j.ID == database.TestJob2.ID
			assert.Equal(t, want, placement.Evaluate(j.CriteriaBranch, j.CriteriaCGPA, "cse", 7).Admitted)
		}
	})

	t.Run("keyword", func(t *testing.T) {
		resp := list(t, "?keyword=INTERN")
		assert.Len(t, resp.Jobs, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		resp := list(t, "?limit=2&page=2&desc=false")
		require.Len(t, resp.Jobs, 1)
		assert.Equal(t, 2, resp.Pages)
		assert.Equal(t, database.TestJob3.ID, resp.Jobs[0].ID)
	})

	t.Run("malformed cgpa", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, token, r, "/jobs?cgpa=high", http.MethodGet)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMyJobsAndGetJob(t *testing.T) {
	r := newRouter(t)

	rec, _ := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestRecruiter1), r, "/jobs/myjobs", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine ListResponse
	testutil.DecodeJSON(t, rec, &mine)
	assert.Len(t, mine.Jobs, 2)
	assert.Equal(t, int64(2), mine.Total)

	token := testutil.TokenFor(t, database.TestStudent1)
	rec, resp := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/jobs/%d", database.TestJob1.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TechNova", resp["company_name"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/jobs/987654", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/jobs/abc", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateJob(t *testing.T) {
	r := newRouter(t)
	job := seedJob(t, database.TestRecruiter2, "Design Engineer")
	path := fmt.Sprintf("/jobs/%d", job.ID)

	rec, _ := testutil.MakeJSONRequest(gin.H{"title": "Hijacked"}, testutil.TokenFor(t, database.TestRecruiter1), r, path, http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"salary": "20000", "criteria_cgpa": 6.5}, testutil.TokenFor(t, database.TestRecruiter2), r, path, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored model.Job
	require.NoError(t, testDB.First(&stored, job.ID).Error)
	assert.Equal(t, "Design Engineer", stored.Title)
	assert.Equal(t, "20000", stored.Salary)
	require.NotNil(t, stored.CriteriaCGPA)
	assert.InDelta(t, 6.5, *stored.CriteriaCGPA, 0.001)

	rec, _ = testutil.MakeJSONRequest(gin.H{"location": "Chennai"}, testutil.TokenFor(t, database.TestAdminUser), r, path, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteJob(t *testing.T) {
	r := newRouter(t)
	job := seedJob(t, database.TestRecruiter2, "Short lived")
	require.NoError(t, testDB.Create(&model.Application{StudentID: database.TestStudent1.ID, JobID: job.ID, Status: model.ApplicationStatusApplied}).Error)
	path := fmt.Sprintf("/jobs/%d", job.ID)

	rec, _ := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestRecruiter1), r, path, http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestRecruiter2), r, path, http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Job removed", resp["message"])

	var count int64
	testDB.Model(&model.Application{}).Where("job_id = ?", job.ID).Count(&count)
	assert.Zero(t, count)

	rec, _ = testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestRecruiter2), r, path, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
