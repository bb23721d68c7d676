package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Teacher is the public profile of a user. It shares its ID with the user.
type Teacher struct {
	ID              uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key"`
	FullName        string                      `json:"full_name" gorm:"type:varchar(255);not null"`
	Title           string                      `json:"title" gorm:"type:varchar(255)"`
	School          string                      `json:"school" gorm:"type:varchar(255)"`
	ExperienceYears int                         `json:"experience_years" gorm:"not null;default:0"`
	Subjects        datatypes.JSONSlice[string] `json:"subjects" gorm:"type:jsonb;not null;default:'[]'"`
	Bio             string                      `json:"bio" gorm:"type:text"`
	AvatarURL       string                      `json:"avatar_url" gorm:"type:varchar(500)"`
	Stance          string                      `json:"stance" gorm:"type:text"`

	User *User `json:"-" gorm:"foreignKey:ID;references:ID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func NewTeacher(userID uuid.UUID, fullName string) *Teacher {
	now := time.Now()
	return &Teacher{
		ID:        userID,
		FullName:  strings.TrimSpace(fullName),
		Subjects:  datatypes.JSONSlice[string]{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates profile data
func (t *Teacher) Validate() error {
	if strings.TrimSpace(t.FullName) == "" {
		return ErrInvalidFullName
	}
	if t.ExperienceYears < 0 {
		return ErrInvalidExperienceYears
	}
	return nil
}

// ApplySuggestion overwrites profile fields with the non-empty fields of s.
func (t *Teacher) ApplySuggestion(s ProfileSuggestion) {
	if s.FullName != "" {
		t.FullName = s.FullName
	}
	if s.Title != "" {
		t.Title = s.Title
	}
	if s.School != "" {
		t.School = s.School
	}
	if s.ExperienceYears != nil && *s.ExperienceYears >= 0 {
		t.ExperienceYears = *s.ExperienceYears
	}
	if len(s.Subjects) > 0 {
		t.Subjects = append(datatypes.JSONSlice[string]{}, s.Subjects...)
	}
	if s.Bio != "" {
		t.Bio = s.Bio
	}
	t.UpdatedAt = time.Now()
}

// ParseSubjects splits a comma separated subject list, dropping blanks.
func ParseSubjects(raw string) []string {
	parts := strings.Split(raw, ",")
	subjects := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			subjects = append(subjects, p)
		}
	}
	return subjects
}
