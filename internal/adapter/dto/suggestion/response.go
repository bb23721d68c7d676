package suggestion

import (
	postDTO "github.com/sideby/teachconnect/internal/adapter/dto/post"
)

// ItemResponse is one pending suggestion
type ItemResponse struct {
	Index    int    `json:"index"`
	Content  string `json:"content"`
	PostType string `json:"post_type"`
	Selected bool   `json:"selected"`
}

// ProfileSuggestionResponse is the profile extracted from a transcript
type ProfileSuggestionResponse struct {
	FullName        string   `json:"full_name,omitempty"`
	Title           string   `json:"title,omitempty"`
	School          string   `json:"school,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	Bio             string   `json:"bio,omitempty"`
}

// PendingResponse is the caller's suggestion review state
type PendingResponse struct {
	Phase    string                     `json:"phase"`
	Short    []ItemResponse             `json:"short"`
	Article  []ItemResponse             `json:"article"`
	Selected int                        `json:"selected"`
	Total    int                        `json:"total"`
	Profile  *ProfileSuggestionResponse `json:"profile,omitempty"`
}

// UploadResponse is the outcome of a transcript upload
type UploadResponse struct {
	FileName string           `json:"file_name"`
	Format   string           `json:"format"`
	Pending  *PendingResponse `json:"pending"`
}

// ConfirmResponse lists the posts created from the selection
type ConfirmResponse struct {
	Posts []*postDTO.PostResponse `json:"posts"`
}
