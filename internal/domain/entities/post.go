package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostType is the category of a post.
type PostType string

const (
	PostTypeShort   PostType = "short"
	PostTypeArticle PostType = "article"
)

func (t PostType) IsValid() bool {
	return t == PostTypeShort || t == PostTypeArticle
}

// MaxShortPostLength is the character limit of a short post.
const MaxShortPostLength = 280

// Post is a published (possibly unapproved) piece of teacher content.
type Post struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TeacherID     uuid.UUID `json:"teacher_id" gorm:"type:uuid;not null;index"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	PostType      PostType  `json:"post_type" gorm:"type:varchar(20);not null;default:'short'"`
	IsAIGenerated bool      `json:"is_ai_generated" gorm:"column:is_ai_generated;not null;default:false"`
	IsApproved    bool      `json:"is_approved" gorm:"not null;default:false;index"`
	LikesCount    int       `json:"likes_count" gorm:"not null;default:0"`

	Author *Teacher `json:"author,omitempty" gorm:"foreignKey:TeacherID;references:ID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewPost creates an unapproved post.
func NewPost(teacherID uuid.UUID, content string, postType PostType, aiGenerated bool) *Post {
	now := time.Now()
	return &Post{
		ID:            uuid.New(),
		TeacherID:     teacherID,
		Content:       content,
		PostType:      postType,
		IsAIGenerated: aiGenerated,
		IsApproved:    false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (p *Post) Validate() error {
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyPost
	}
	if !p.PostType.IsValid() {
		return ErrInvalidPostType
	}
	return nil
}

// Approve marks the post visible to everyone.
func (p *Post) Approve() {
	p.IsApproved = true
	p.UpdatedAt = time.Now()
}
