package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
)

func plainFile(name, content string) *File {
	return &File{Name: name, ContentType: "text/plain", Content: strings.NewReader(content)}
}

func TestExtractPlainText(t *testing.T) {
	svc := NewService(1024, nil)

	tr, err := svc.Extract(plainFile("notes.txt", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", tr.Cleaned)
	assert.Equal(t, entities.TranscriptPlain, tr.Format)
}

func TestExtractPlainTextIsUnchanged(t *testing.T) {
	svc := NewService(0, nil)
	inputs := []string{
		"hello",
		"  padded content\n",
		"line one\nline two\n\n00:00:01.000 --> 00:00:02.000\n42",
		"WEBVTT is just a word here",
	}
	for _, in := range inputs {
		tr, err := svc.Extract(plainFile("a.txt", in))
		require.NoError(t, err, in)
		assert.Equal(t, in, tr.Cleaned)
	}
}

func TestExtractSubtitle(t *testing.T) {
	svc := NewService(1024, nil)
	file := &File{
		Name:        "chat.vtt",
		ContentType: "text/vtt",
		Content:     strings.NewReader("WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHello there\n"),
	}

	tr, err := svc.Extract(file)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", tr.Cleaned)
	assert.Equal(t, entities.TranscriptSubtitle, tr.Format)
}

func TestStripSubtitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "multiple cues",
			in:   "WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHi  \n\n2\n00:00:02.000 --> 00:00:04.000\n  How are you?\nFine\n",
			want: "Hi How are you? Fine",
		},
		{
			name: "crlf line endings",
			in:   "WEBVTT\r\n\r\n1\r\n00:00:00.000 --> 00:00:01.000\r\nOne\r\n",
			want: "One",
		},
		{
			name: "numbers inside text are kept",
			in:   "WEBVTT\n12 students joined\n2024\n",
			want: "12 students joined",
		},
		{
			name: "header only",
			in:   "WEBVTT\n\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripSubtitle(tt.in))
		})
	}
}

func TestStripSubtitleDropsStructuralLines(t *testing.T) {
	in := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nFirst\n\n22\n00:00:02.000 --> 00:00:03.000\nSecond\n"
	out := StripSubtitle(in)

	for _, part := range strings.Split(out, " ") {
		assert.NotEqual(t, "WEBVTT", part)
		assert.NotContains(t, part, "-->")
		assert.False(t, isCueIndex(part), "cue index %q leaked", part)
	}
	assert.Equal(t, "First Second", out)
}

func TestExtractErrors(t *testing.T) {
	svc := NewService(16, nil)

	tests := []struct {
		name string
		file *File
		want error
	}{
		{name: "nil file", file: nil, want: usecaseErrors.ErrNoFileSelected},
		{name: "nil content", file: &File{Name: "a.txt", ContentType: "text/plain"}, want: usecaseErrors.ErrNoFileSelected},
		{name: "pdf", file: &File{Name: "a.pdf", ContentType: "application/pdf", Content: strings.NewReader("x")}, want: usecaseErrors.ErrInvalidFileType},
		{name: "txt with wrong type", file: &File{Name: "a.txt", ContentType: "application/octet-stream", Content: strings.NewReader("x")}, want: usecaseErrors.ErrInvalidFileType},
		{name: "whitespace only", file: plainFile("a.txt", " \n\t "), want: usecaseErrors.ErrEmptyFile},
		{name: "subtitle without text", file: &File{Name: "a.vtt", Content: strings.NewReader("WEBVTT\n\n1\n")}, want: usecaseErrors.ErrEmptyFile},
		{name: "too large", file: plainFile("a.txt", strings.Repeat("x", 17)), want: usecaseErrors.ErrInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Extract(tt.file)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        entities.TranscriptFormat
		ok          bool
	}{
		{"a.txt", "text/plain", entities.TranscriptPlain, true},
		{"a.txt", "text/plain; charset=utf-8", entities.TranscriptPlain, true},
		{"a.VTT", "", entities.TranscriptSubtitle, true},
		{"a.vtt", "text/plain", entities.TranscriptSubtitle, true},
		{"a.md", "text/markdown", "", false},
		{"a", "", "", false},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.name, tt.contentType)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
