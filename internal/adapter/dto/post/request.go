package post

// CreatePostRequest is a manually written short post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required"`
}
