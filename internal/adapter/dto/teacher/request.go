package teacher

import (
	"encoding/json"

	"github.com/sideby/teachconnect/internal/domain/entities"
)

// Subjects accepts either a JSON list or a comma-separated string
type Subjects []string

func (s *Subjects) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*s = entities.ParseSubjects(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// UpsertProfileRequest creates or replaces the caller's teacher profile
type UpsertProfileRequest struct {
	FullName        string   `json:"full_name" validate:"required,notblank,max=255"`
	Title           string   `json:"title" validate:"max=255"`
	School          string   `json:"school" validate:"max=255"`
	ExperienceYears int      `json:"experience_years" validate:"min=0,max=80"`
	Subjects        Subjects `json:"subjects" validate:"max=20,dive,max=64"`
	Bio             string   `json:"bio" validate:"max=2000"`
	Stance          string   `json:"stance" validate:"max=2000"`
}

// DiscoverQuery searches teachers by name, school or subject
type DiscoverQuery struct {
	Query string `query:"q" validate:"max=100"`
	Limit int    `query:"limit" validate:"omitempty,min=0"`
}
