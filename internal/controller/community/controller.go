// Package community provides HTTP handlers for community posts and comments.
package community

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/utilities"
)

// CommunityController handles community related endpoints
type CommunityController struct {
	DB *database.DBinstanceStruct
}

type postInfo struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type commentInfo struct {
	CommentContent string `json:"commentContent"`
}

// NewCommunityController creates a new instance of CommunityController
func NewCommunityController(db *database.DBinstanceStruct) *CommunityController {
	return &CommunityController{DB: db}
}

// CreatePost opens a discussion thread
// @Summary Create a community post
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param post body postInfo true "Post"
// @Success 201 {object} model.CommunityPostResponse
// @Failure 400 {object} utilities.ErrorResponse "Title and content are required"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community [post]
func (cc *CommunityController) CreatePost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info postInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}
	info.Title, info.Content = strings.TrimSpace(info.Title), strings.TrimSpace(info.Content)
	if info.Title == "" || info.Content == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Title and content are required"})
		return
	}

	post := model.CommunityPost{UserID: user.ID, Title: info.Title, Content: info.Content}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&post).Error; err != nil {
		utilities.WriteError(c, err, "Failed to create post")
		return
	}
	post.User = &user
	c.JSON(http.StatusCreated, post.ToResponse())
}

// ListPosts lists every post, newest first
// @Summary List community posts
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.CommunityPostResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community [get]
func (cc *CommunityController) ListPosts(c *gin.Context) {
	var posts []model.CommunityPost
	if err := cc.DB.WithContext(c.Request.Context()).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve posts")
		return
	}

	out := make([]model.CommunityPostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].ToResponse())
	}
	c.JSON(http.StatusOK, out)
}

// GetPost returns one post
// @Summary Get a community post
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Post ID"
// @Success 200 {object} model.CommunityPostResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Router /community/{id} [get]
func (cc *CommunityController) GetPost(c *gin.Context) {
	post, ok := cc.loadPost(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post.ToResponse())
}

// UpdatePost edits a post. Only its author can edit it.
// @Summary Edit a community post
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Post ID"
// @Param post body postInfo true "Fields to change"
// @Success 200 {object} model.CommunityPostResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or body"
// @Failure 403 {object} utilities.ErrorResponse "Not the author"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Router /community/{id} [put]
func (cc *CommunityController) UpdatePost(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	post, ok := cc.loadPost(c, "id")
	if !ok {
		return
	}
	if !placement.Can(actor, placement.ActionEditPost, placement.Resource{OwnerID: post.UserID}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Not authorized to edit this post"})
		return
	}

	var info postInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if v := strings.TrimSpace(info.Title); v != "" {
		post.Title = v
	}
	if v := strings.TrimSpace(info.Content); v != "" {
		post.Content = v
	}

	if err := cc.DB.WithContext(c.Request.Context()).
		Model(post).
		Select("title", "content").
		Updates(post).Error; err != nil {
		utilities.WriteError(c, err, "Failed to update post")
		return
	}
	c.JSON(http.StatusOK, post.ToResponse())
}

// DeletePost removes a post and its comments
// @Summary Delete a community post
// @Description The author or an admin can delete
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Post ID"
// @Success 200 {object} utilities.MessageResponse "Post removed"
// @Failure 403 {object} utilities.ErrorResponse "Not authorized"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Router /community/{id} [delete]
func (cc *CommunityController) DeletePost(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	post, ok := cc.loadPost(c, "id")
	if !ok {
		return
	}
	if !placement.Can(actor, placement.ActionDeletePost, placement.Resource{OwnerID: post.UserID}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Not authorized to delete this post"})
		return
	}

	err = cc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&model.CommunityComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		utilities.WriteError(c, err, "Failed to delete post")
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Post removed"})
}

// CreateComment replies on a post
// @Summary Comment on a community post
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Post ID"
// @Param comment body commentInfo true "Comment"
// @Success 201 {object} model.CommunityCommentResponse
// @Failure 400 {object} utilities.ErrorResponse "Comment content is required"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Router /community/{id}/comments [post]
func (cc *CommunityController) CreateComment(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	post, ok := cc.loadPost(c, "id")
	if !ok {
		return
	}

	var info commentInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}
	content := strings.TrimSpace(info.CommentContent)
	if content == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Comment content is required"})
		return
	}

	comment := model.CommunityComment{PostID: post.ID, UserID: user.ID, CommentContent: content}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&comment).Error; err != nil {
		utilities.WriteError(c, err, "Failed to create comment")
		return
	}
	comment.User = &user
	c.JSON(http.StatusCreated, comment.ToResponse())
}

// ListComments lists the comments of a post, oldest first
// @Summary List comments of a community post
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Post ID"
// @Success 200 {array} model.CommunityCommentResponse
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Router /community/{id}/comments [get]
func (cc *CommunityController) ListComments(c *gin.Context) {
	post, ok := cc.loadPost(c, "id")
	if !ok {
		return
	}

	var comments []model.CommunityComment
	if err := cc.DB.WithContext(c.Request.Context()).
		Preload("User").
		Where("post_id = ?", post.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve comments")
		return
	}

	out := make([]model.CommunityCommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, comments[i].ToResponse())
	}
	c.JSON(http.StatusOK, out)
}

// DeleteComment removes a comment of a post
// @Summary Delete a comment
// @Description The author or an admin can delete. The comment must belong to the post.
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} utilities.MessageResponse "Comment removed"
// @Failure 400 {object} utilities.ErrorResponse "Comment does not belong to this post"
// @Failure 403 {object} utilities.ErrorResponse "Not authorized"
// @Failure 404 {object} utilities.ErrorResponse "Comment not found"
// @Router /community/{id}/comments/{commentId} [delete]
func (cc *CommunityController) DeleteComment(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	postID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "commentId")
	if !ok {
		return
	}

	var comment model.CommunityComment
	if err := cc.DB.WithContext(c.Request.Context()).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Comment not found"})
			return
		}
		utilities.WriteError(c, err, "Failed to retrieve comment")
		return
	}
	if comment.PostID != postID {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Comment does not belong to this post"})
		return
	}
	if !placement.Can(actor, placement.ActionDeletePost, placement.Resource{OwnerID: comment.UserID}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Not authorized to delete this comment"})
		return
	}

	if err := cc.DB.WithContext(c.Request.Context()).Delete(&comment).Error; err != nil {
		utilities.WriteError(c, err, "Failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Comment removed"})
}

func (cc *CommunityController) loadPost(c *gin.Context, param string) (*model.CommunityPost, bool) {
	id, ok := uintParam(c, param)
	if !ok {
		return nil, false
	}

	var post model.CommunityPost
	if err := cc.DB.WithContext(c.Request.Context()).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Post not found"})
			return nil, false
		}
		utilities.WriteError(c, err, "Failed to retrieve post")
		return nil, false
	}
	return &post, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
