package post

import "time"

// AuthorResponse is the slice of the author shown next to a post
type AuthorResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Title     string `json:"title,omitempty"`
	School    string `json:"school,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// PostResponse represents a post in responses
type PostResponse struct {
	ID            string          `json:"id"`
	TeacherID     string          `json:"teacher_id"`
	Content       string          `json:"content"`
	PostType      string          `json:"post_type"`
	IsAIGenerated bool            `json:"is_ai_generated"`
	IsApproved    bool            `json:"is_approved"`
	LikesCount    int             `json:"likes_count"`
	Author        *AuthorResponse `json:"author,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LikeResponse carries the like count after a like
type LikeResponse struct {
	LikesCount int `json:"likes_count"`
}
