package presenter

import (
	suggestionDTO "github.com/sideby/teachconnect/internal/adapter/dto/suggestion"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/usecase/transcript"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
)

func toItems(items []workflow.Item) []suggestionDTO.ItemResponse {
	out := make([]suggestionDTO.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, suggestionDTO.ItemResponse{
			Index:    it.Index,
			Content:  it.Content,
			PostType: string(it.PostType),
			Selected: it.Selected,
		})
	}
	return out
}

// ToPendingResponse converts a workflow view
func ToPendingResponse(v *workflow.View) *suggestionDTO.PendingResponse {
	if v == nil {
		return &suggestionDTO.PendingResponse{
			Phase:   string(workflow.PhaseIdle),
			Short:   []suggestionDTO.ItemResponse{},
			Article: []suggestionDTO.ItemResponse{},
		}
	}
	return &suggestionDTO.PendingResponse{
		Phase:    string(v.Phase),
		Short:    toItems(v.Short),
		Article:  toItems(v.Article),
		Selected: v.Selected,
		Total:    v.Total,
		Profile:  toProfileSuggestion(v.Profile),
	}
}

func toProfileSuggestion(p *entities.ProfileSuggestion) *suggestionDTO.ProfileSuggestionResponse {
	if p == nil || p.IsEmpty() {
		return nil
	}
	return &suggestionDTO.ProfileSuggestionResponse{
		FullName:        p.FullName,
		Title:           p.Title,
		School:          p.School,
		ExperienceYears: p.ExperienceYears,
		Subjects:        p.Subjects,
		Bio:             p.Bio,
	}
}

func ToUploadResponse(r *transcript.Result) *suggestionDTO.UploadResponse {
	if r == nil {
		return nil
	}
	return &suggestionDTO.UploadResponse{
		FileName: r.FileName,
		Format:   string(r.Format),
		Pending:  ToPendingResponse(r.View),
	}
}

func ToConfirmResponse(posts []*entities.Post) *suggestionDTO.ConfirmResponse {
	return &suggestionDTO.ConfirmResponse{Posts: ToPostList(posts)}
}
