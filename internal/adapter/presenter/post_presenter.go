package presenter

import (
	postDTO "github.com/sideby/teachconnect/internal/adapter/dto/post"
	"github.com/sideby/teachconnect/internal/domain/entities"
)

// ToPostResponse converts a Post entity, with its author when preloaded
func ToPostResponse(p *entities.Post) *postDTO.PostResponse {
	if p == nil {
		return nil
	}
	resp := &postDTO.PostResponse{
		ID:            p.ID.String(),
		TeacherID:     p.TeacherID.String(),
		Content:       p.Content,
		PostType:      string(p.PostType),
		IsAIGenerated: p.IsAIGenerated,
		IsApproved:    p.IsApproved,
		LikesCount:    p.LikesCount,
		CreatedAt:     p.CreatedAt,
	}
	if a := p.Author; a != nil {
		resp.Author = &postDTO.AuthorResponse{
			ID:        a.ID.String(),
			FullName:  a.FullName,
			Title:     a.Title,
			School:    a.School,
			AvatarURL: a.AvatarURL,
		}
	}
	return resp
}

func ToPostList(ps []*entities.Post) []*postDTO.PostResponse {
	out := make([]*postDTO.PostResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToPostResponse(p))
	}
	return out
}
