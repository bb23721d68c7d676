package teacher

import "time"

// TeacherResponse is a public teacher profile
type TeacherResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Title           string    `json:"title,omitempty"`
	School          string    `json:"school,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	Subjects        []string  `json:"subjects"`
	Bio             string    `json:"bio,omitempty"`
	Stance          string    `json:"stance,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileResponse is a teacher as seen by the viewer
type ProfileResponse struct {
	Teacher     *TeacherResponse `json:"teacher"`
	Followers   int64            `json:"followers"`
	Following   int64            `json:"following"`
	IsFollowing bool             `json:"is_following"`
}

// AvatarResponse carries the public URL of an uploaded avatar
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
