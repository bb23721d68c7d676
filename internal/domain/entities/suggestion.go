package entities

// SuggestionKind names the variant of a Suggestion.
type SuggestionKind string

const (
	SuggestionProfile SuggestionKind = "profile"
	SuggestionPost    SuggestionKind = "post"
)

// Suggestion is an AI-proposed record awaiting confirmation.
// The only implementations are ProfileSuggestion and PostSuggestion.
type Suggestion interface {
	Kind() SuggestionKind
	sealed()
}

// ProfileSuggestion proposes profile fields. Empty fields are absent.
type ProfileSuggestion struct {
	FullName        string   `json:"full_name,omitempty"`
	Title           string   `json:"title,omitempty"`
	School          string   `json:"school,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	Bio             string   `json:"bio,omitempty"`
}

func (ProfileSuggestion) Kind() SuggestionKind { return SuggestionProfile }
func (ProfileSuggestion) sealed()              {}

// IsEmpty reports whether no field is set.
func (p ProfileSuggestion) IsEmpty() bool {
	return p.FullName == "" && p.Title == "" && p.School == "" &&
		p.ExperienceYears == nil && len(p.Subjects) == 0 && p.Bio == ""
}

// PostSuggestion proposes one post.
type PostSuggestion struct {
	Content  string   `json:"content"`
	PostType PostType `json:"post_type"`
}

func (PostSuggestion) Kind() SuggestionKind { return SuggestionPost }
func (PostSuggestion) sealed()              {}

// SplitSuggestions separates posts from the profile suggestion, keeping post order.
func SplitSuggestions(all []Suggestion) ([]PostSuggestion, *ProfileSuggestion) {
	var (
		posts   []PostSuggestion
		profile *ProfileSuggestion
	)
	for _, s := range all {
		switch v := s.(type) {
		case PostSuggestion:
			posts = append(posts, v)
		case ProfileSuggestion:
			p := v
			profile = &p
		}
	}
	return posts, profile
}
