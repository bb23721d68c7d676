// Package intake validates uploaded transcript files and extracts their text.
package intake

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
)

const (
	// PlainTextType is the accepted declared type for plain transcripts.
	PlainTextType = "text/plain"
	// SubtitleExtension marks subtitle transcripts.
	SubtitleExtension = ".vtt"
)

// File is a candidate upload. A nil File or nil Content means nothing was selected.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Service turns candidate files into transcripts. It never touches the network.
type Service struct {
	maxBytes int64
	logger   *zap.Logger
}

func NewService(maxBytes int64, logger *zap.Logger) *Service {
	return &Service{maxBytes: maxBytes, logger: logger}
}

// Classify decides the transcript format from the file name and declared type.
// The subtitle extension wins over the declared type.
func Classify(name, contentType string) (entities.TranscriptFormat, bool) {
	if strings.EqualFold(filepath.Ext(name), SubtitleExtension) {
		return entities.TranscriptSubtitle, true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && strings.EqualFold(mediaType, PlainTextType) {
		return entities.TranscriptPlain, true
	}
	return "", false
}

// Extract validates file and returns its cleaned transcript.
func (s *Service) Extract(file *File) (*entities.Transcript, error) {
	if file == nil || file.Content == nil {
		return nil, usecaseErrors.ErrNoFileSelected
	}

	format, ok := Classify(file.Name, file.ContentType)
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", usecaseErrors.ErrInvalidFileType, file.Name, file.ContentType)
	}

	raw, err := s.read(file.Content)
	if err != nil {
		return nil, err
	}

	cleaned := raw
	if format == entities.TranscriptSubtitle {
		cleaned = StripSubtitle(raw)
	}
	if strings.TrimSpace(cleaned) == "" {
		return nil, usecaseErrors.ErrEmptyFile
	}

	if s.logger != nil {
		s.logger.Debug("transcript extracted",
			zap.String("file_name", file.Name),
			zap.String("format", string(format)),
			zap.Int("raw_length", len(raw)),
			zap.Int("cleaned_length", len(cleaned)),
		)
	}

	return &entities.Transcript{
		FileName: file.Name,
		Format:   format,
		Raw:      raw,
		Cleaned:  cleaned,
	}, nil
}

func (s *Service) read(r io.Reader) (string, error) {
	if s.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read transcript: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", usecaseErrors.ErrInvalidFileType, s.maxBytes)
	}
	return string(data), nil
}
