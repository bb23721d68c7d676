// Package transcript runs an uploaded transcript through intake and analysis
// and opens the resulting suggestions for confirmation.
package transcript

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/intake"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
)

type Extractor interface {
	Extract(file *intake.File) (*entities.Transcript, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, transcript string) ([]entities.Suggestion, error)
}

type Workflow interface {
	Begin(ctx context.Context, key string, suggestions []entities.Suggestion) (*workflow.View, error)
}

// Result is the outcome of one upload.
type Result struct {
	FileName string
	Format   entities.TranscriptFormat
	View     *workflow.View
}

type Service struct {
	intake   Extractor
	analyzer Analyzer
	workflow Workflow
	logger   *zap.Logger
}

func NewService(intake Extractor, analyzer Analyzer, workflow Workflow, logger *zap.Logger) *Service {
	return &Service{intake: intake, analyzer: analyzer, workflow: workflow, logger: logger}
}

// Process extracts text from file, analyzes it and replaces the pending
// suggestions of ownerKey. A failure at any stage leaves the previous pending
// set untouched.
func (s *Service) Process(ctx context.Context, ownerKey string, file *intake.File) (*Result, error) {
	if ownerKey == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}

	t, err := s.intake.Extract(file)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	suggestions, err := s.analyzer.Analyze(ctx, t.Cleaned)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("❌ Transcript analysis failed",
				zap.String("file", t.FileName),
				zap.Duration("took", time.Since(started)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	view, err := s.workflow.Begin(ctx, ownerKey, suggestions)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcript analyzed",
			zap.String("file", t.FileName),
			zap.String("format", string(t.Format)),
			zap.Int("suggestions", view.Total),
			zap.Duration("took", time.Since(started)),
		)
	}
	return &Result{FileName: t.FileName, Format: t.Format, View: view}, nil
}
