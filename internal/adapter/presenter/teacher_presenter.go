package presenter

import (
	teacherDTO "github.com/sideby/teachconnect/internal/adapter/dto/teacher"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/usecase/teacher"
)

func ToTeacherResponse(t *entities.Teacher) *teacherDTO.TeacherResponse {
	if t == nil {
		return nil
	}
	subjects := []string(t.Subjects)
	if subjects == nil {
		subjects = []string{}
	}
	return &teacherDTO.TeacherResponse{
		ID:              t.ID.String(),
		FullName:        t.FullName,
		Title:           t.Title,
		School:          t.School,
		ExperienceYears: t.ExperienceYears,
		Subjects:        subjects,
		Bio:             t.Bio,
		Stance:          t.Stance,
		AvatarURL:       t.AvatarURL,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func ToTeacherList(ts []*entities.Teacher) []*teacherDTO.TeacherResponse {
	out := make([]*teacherDTO.TeacherResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToTeacherResponse(t))
	}
	return out
}

func ToProfileResponse(p *teacher.Profile) *teacherDTO.ProfileResponse {
	if p == nil {
		return nil
	}
	resp := &teacherDTO.ProfileResponse{
		Teacher:     ToTeacherResponse(p.Teacher),
		IsFollowing: p.IsFollowing,
	}
	if p.Stats != nil {
		resp.Followers = p.Stats.Followers
		resp.Following = p.Stats.Following
	}
	return resp
}
