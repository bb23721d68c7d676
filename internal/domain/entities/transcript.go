package entities

// TranscriptFormat tags where transcript text came from.
type TranscriptFormat string

const (
	TranscriptPlain    TranscriptFormat = "plain"
	TranscriptSubtitle TranscriptFormat = "subtitle"
)

// Transcript is an uploaded conversation. It is never persisted.
type Transcript struct {
	FileName string
	Format   TranscriptFormat
	Raw      string
	Cleaned  string
}
