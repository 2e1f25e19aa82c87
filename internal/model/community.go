package model

import (
	"time"

	"github.com/google/uuid"
)

// CommunityPost is a discussion thread opened by any signed-in user
type CommunityPost struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Comments []CommunityComment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// CommunityComment is a reply on a community post
type CommunityComment struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"_id"`
	PostID         uint      `gorm:"not null;index;<-:create" json:"post"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	CommentContent string    `gorm:"type:text;not null" json:"commentContent"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AuthorName is the author display name, populated when User is preloaded
type AuthorName struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

// CommunityPostResponse is a post with its author name resolved
type CommunityPostResponse struct {
	CommunityPost
	User *AuthorName `json:"user,omitempty"`
}

// ToResponse resolves the author of the post
func (p *CommunityPost) ToResponse() CommunityPostResponse {
	resp := CommunityPostResponse{CommunityPost: *p}
	if p.User != nil {
		resp.User = &AuthorName{ID: p.User.ID, Name: p.User.Name}
	}
	return resp
}

// CommunityCommentResponse is a comment with its author name resolved
type CommunityCommentResponse struct {
	CommunityComment
	User *AuthorName `json:"user,omitempty"`
}

// ToResponse resolves the author of the comment
func (c *CommunityComment) ToResponse() CommunityCommentResponse {
	resp := CommunityCommentResponse{CommunityComment: *c}
	if c.User != nil {
		resp.User = &AuthorName{ID: c.User.ID, Name: c.User.Name}
	}
	return resp
}
