package community

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
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	teardown, db, err := database.GetTestDB()
	if err != nil {
		slog.Warn("could not start postgres container, community tests will be skipped", slog.Any("error", err))
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
	t.Cleanup(func() {
		testDB.Where("1 = 1").Delete(&model.CommunityComment{})
		testDB.Where("1 = 1").Delete(&model.CommunityPost{})
	})

	cc := NewCommunityController(testDB)
	r := gin.New()
	g := r.Group("/community", testutil.AuthChain(testDB)...)
	g.POST("", cc.CreatePost)
	g.GET("", cc.ListPosts)
	g.GET("/:id", cc.GetPost)
	g.PUT("/:id", cc.UpdatePost)
	g.DELETE("/:id", cc.DeletePost)
	g.POST("/:id/comments", cc.CreateComment)
	g.GET("/:id/comments", cc.ListComments)
	g.DELETE("/:id/comments/:commentId", cc.DeleteComment)
	return r
}

func createPost(t *testing.T, r http.Handler, author model.User, title string) uint {
	t.Helper()
	rec, _ := testutil.MakeJSONRequest(gin.H{"title": title, "content": "Body of " + title}, testutil.TokenFor(t, author), r, "/community", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp model.CommunityPostResponse
	testutil.DecodeJSON(t, rec, &resp)
	return resp.ID
}

func TestPosts(t *testing.T) {
	r := newRouter(t)
	first := createPost(t, r, database.TestStudent1, "Interview tips")
	second := createPost(t, r, database.TestRecruiter1, "Hiring drive")

	t.Run("validation", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{"title": "No body"}, testutil.TokenFor(t, database.TestStudent1), r, "/community", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Title and content are required", resp["error"])
	})

	t.Run("newest first with author", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent2), r, "/community", http.MethodGet)
		require.Equal(t, http.StatusOK, rec.Code)
		var posts []model.CommunityPostResponse
		testutil.DecodeJSON(t, rec, &posts)
		require.Len(t, posts, 2)
		assert.Equal(t, second, posts[0].ID)
		require.NotNil(t, posts[1].User)
		assert.Equal(t, database.TestStudent1.Name, posts[1].User.Name)
	})

	t.Run("only the author edits", func(t *testing.T) {
		path := fmt.Sprintf("/community/%d", first)
		rec, _ := testutil.MakeJSONRequest(gin.H{"title": "Edited"}, testutil.TokenFor(t, database.TestAdminUser), r, path, http.MethodPut)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec, resp := testutil.MakeJSONRequest(gin.H{"title": "Edited"}, testutil.TokenFor(t, database.TestStudent1), r, path, http.MethodPut)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Edited", resp["title"])
		assert.Equal(t, "Body of Interview tips", resp["content"])
	})

	t.Run("missing post", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent1), r, "/community/987654", http.MethodGet)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin deletes with comments", func(t *testing.T) {
		path := fmt.Sprintf("/community/%d", second)
		rec, _ := testutil.MakeJSONRequest(gin.H{"commentContent": "Interested"}, testutil.TokenFor(t, database.TestStudent2), r, path+"/comments", http.MethodPost)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, _ = testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent2), r, path, http.MethodDelete)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec, resp := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestAdminUser), r, path, http.MethodDelete)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Post removed", resp["message"])

		var count int64
		testDB.Model(&model.CommunityComment{}).Where("post_id = ?", second).Count(&count)
		assert.Zero(t, count)
	})
}

func TestComments(t *testing.T) {
	r := newRouter(t)
	post := createPost(t, r, database.TestStudent1, "Resume review")
	other := createPost(t, r, database.TestStudent1, "Off topic")
	path := fmt.Sprintf("/community/%d/comments", post)

	rec, _ := testutil.MakeJSONRequest(gin.H{"commentContent": "  "}, testutil.TokenFor(t, database.TestStudent2), r, path, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"commentContent": "Looks good"}, testutil.TokenFor(t, database.TestStudent2), r, path, http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment model.CommunityCommentResponse
	testutil.DecodeJSON(t, rec, &comment)
	assert.Equal(t, post, comment.PostID)

	rec, _ = testutil.MakeJSONRequest(gin.H{"commentContent": "Nope"}, testutil.TokenFor(t, database.TestStudent2), r, "/community/987654/comments", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent1), r, path, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []model.CommunityCommentResponse
	testutil.DecodeJSON(t, rec, &comments)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].User)
	assert.Equal(t, database.TestStudent2.Name, comments[0].User.Name)

	wrongPost := fmt.Sprintf("/community/%d/comments/%d", other, comment.ID)
	rec, resp := testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent2), r, wrongPost, http.MethodDelete)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Comment does not belong to this post", resp["error"])

	own := fmt.Sprintf("%s/%d", path, comment.ID)
	rec, _ = testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent1), r, own, http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent2), r, own, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, testutil.TokenFor(t, database.TestStudent2), r, own, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
