// Package analysis turns transcript text into post and profile suggestions
// using an external completion service.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/pkg/ai"
)

const (
	// DefaultMinArticleWords is the article length floor when none is configured.
	DefaultMinArticleWords = 300

	shortPostsMaxTokens = 1000
)

// PlaceholderProfile is the profile suggestion attached to every analysis.
// It is fixed text, not derived from the transcript.
func PlaceholderProfile() entities.ProfileSuggestion {
	return entities.ProfileSuggestion{
		Title:    "Teacher",
		Bio:      "Experienced educator passionate about student success.",
		Subjects: []string{"General Education"},
	}
}

// Analyzer requests short posts and an article for a transcript.
type Analyzer struct {
	completer       ai.Completer
	minArticleWords int
	logger          *zap.Logger
}

func NewAnalyzer(completer ai.Completer, minArticleWords int, logger *zap.Logger) *Analyzer {
	if minArticleWords <= 0 {
		minArticleWords = DefaultMinArticleWords
	}
	return &Analyzer{
		completer:       completer,
		minArticleWords: minArticleWords,
		logger:          logger,
	}
}

// Analyze returns short posts, then articles, then the placeholder profile
// suggestion. Nothing is returned when any request or decode step fails.
func (a *Analyzer) Analyze(ctx context.Context, transcript string) ([]entities.Suggestion, error) {
	text := strings.Join(strings.Fields(transcript), " ")
	if text == "" {
		return nil, usecaseErrors.ErrEmptyFile
	}

	var shorts, articles []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := a.request(gctx, entities.PostTypeShort, shortPostsPrompt, shortPostsMaxTokens, text)
		shorts = items
		return err
	})
	g.Go(func() error {
		items, err := a.request(gctx, entities.PostTypeArticle, articlePrompt, 0, text)
		articles = items
		return err
	})
	if err := g.Wait(); err != nil {
		if a.logger != nil {
			a.logger.Warn("transcript analysis failed",
				zap.Int("transcript_length", len(text)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	suggestions := make([]entities.Suggestion, 0, len(shorts)+len(articles)+1)
	for _, s := range shorts {
		suggestions = append(suggestions, entities.PostSuggestion{Content: s, PostType: entities.PostTypeShort})
	}
	for _, s := range articles {
		suggestions = append(suggestions, entities.PostSuggestion{Content: s, PostType: entities.PostTypeArticle})
	}
	suggestions = append(suggestions, PlaceholderProfile())

	if a.logger != nil {
		a.logger.Info("transcript analyzed",
			zap.Int("short_posts", len(shorts)),
			zap.Int("articles", len(articles)),
		)
	}
	return suggestions, nil
}

func (a *Analyzer) request(ctx context.Context, postType entities.PostType, system string, maxTokens int, text string) ([]string, error) {
	content, err := a.completer.Complete(ctx, ai.CompletionRequest{
		System:    system,
		User:      userPrompt(text),
		MaxTokens: maxTokens,
	})
	if err != nil {
		if errors.Is(err, ai.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s: %w", usecaseErrors.ErrAnalysisTimeout, postType, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", usecaseErrors.ErrAnalysisRequestFailed, postType, err)
	}

	items, err := DecodeArray(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", postType, err)
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		item = strings.TrimSpace(item)
		if err := a.check(postType, item); err != nil {
			return nil, fmt.Errorf("%w: %s %d: %v", usecaseErrors.ErrMalformedSuggestion, postType, i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (a *Analyzer) check(postType entities.PostType, content string) error {
	if content == "" {
		return errors.New("empty content")
	}
	switch postType {
	case entities.PostTypeShort:
		if n := utf8.RuneCountInString(content); n > entities.MaxShortPostLength {
			return fmt.Errorf("%d characters exceeds %d", n, entities.MaxShortPostLength)
		}
	case entities.PostTypeArticle:
		if n := len(strings.Fields(content)); n < a.minArticleWords {
			return fmt.Errorf("%d words is below %d", n, a.minArticleWords)
		}
	}
	return nil
}
