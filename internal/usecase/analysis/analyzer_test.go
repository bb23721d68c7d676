package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/pkg/ai"
)

type reply struct {
	content string
	err     error
	delay   time.Duration
}

type fakeCompleter struct {
	mu       sync.Mutex
	short    reply
	article  reply
	requests []ai.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	r := f.article
	if req.System == shortPostsPrompt {
		r = f.short
	}
	f.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return r.content, r.err
}

func article(words int) string {
	return strings.TrimSpace(strings.Repeat("word ", words))
}

func quoted(items ...string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestAnalyzeOrdersShortThenArticleThenProfile(t *testing.T) {
	completer := &fakeCompleter{
		short:   reply{content: quoted("Short A", "Short B"), delay: 30 * time.Millisecond},
		article: reply{content: "Sure! " + quoted(article(320))},
	}
	analyzer := NewAnalyzer(completer, 300, nil)

	got, err := analyzer.Analyze(context.Background(), "  we talked   about\n reading circles ")
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, entities.PostSuggestion{Content: "Short A", PostType: entities.PostTypeShort}, got[0])
	assert.Equal(t, entities.PostSuggestion{Content: "Short B", PostType: entities.PostTypeShort}, got[1])
	assert.Equal(t, entities.PostTypeArticle, got[2].(entities.PostSuggestion).PostType)
	assert.Equal(t, PlaceholderProfile(), got[3])

	require.Len(t, completer.requests, 2)
	for _, req := range completer.requests {
		assert.Equal(t, userPrompt("we talked about reading circles"), req.User)
	}
}

func TestAnalyzeRejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name  string
		short string
		art   string
	}{
		{name: "short post too long", short: quoted("ok", strings.Repeat("x", 281)), art: quoted(article(300))},
		{name: "article too short", short: quoted("ok"), art: quoted(article(299))},
		{name: "blank short post", short: quoted("ok", "   "), art: quoted(article(300))},
		{name: "undecodable article", short: quoted("ok"), art: "no array here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{short: reply{content: tt.short}, article: reply{content: tt.art}}
			got, err := NewAnalyzer(completer, 300, nil).Analyze(context.Background(), "transcript")
			assert.ErrorIs(t, err, usecaseErrors.ErrMalformedSuggestion)
			assert.Nil(t, got)
		})
	}
}

func TestAnalyzeShortLimitCountsCharacters(t *testing.T) {
	completer := &fakeCompleter{
		short:   reply{content: quoted(strings.Repeat("é", 280))},
		article: reply{content: quoted(article(300))},
	}
	got, err := NewAnalyzer(completer, 300, nil).Analyze(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "timeout", err: fmt.Errorf("%w after 45s", ai.ErrTimeout), want: usecaseErrors.ErrAnalysisTimeout},
		{name: "status", err: &ai.StatusError{StatusCode: 500, Err: errors.New("boom")}, want: usecaseErrors.ErrAnalysisRequestFailed},
		{name: "transport", err: errors.New("connection refused"), want: usecaseErrors.ErrAnalysisRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{
				short:   reply{err: tt.err},
				article: reply{content: quoted(article(300))},
			}
			got, err := NewAnalyzer(completer, 300, nil).Analyze(context.Background(), "transcript")
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestAnalyzeTimeoutIsNotMalformed(t *testing.T) {
	completer := &fakeCompleter{
		short:   reply{err: ai.ErrTimeout},
		article: reply{content: quoted(article(300))},
	}
	_, err := NewAnalyzer(completer, 300, nil).Analyze(context.Background(), "transcript")
	assert.ErrorIs(t, err, usecaseErrors.ErrAnalysisTimeout)
	assert.NotErrorIs(t, err, usecaseErrors.ErrMalformedSuggestion)
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	completer := &fakeCompleter{}
	_, err := NewAnalyzer(completer, 300, nil).Analyze(context.Background(), " \n\t")
	assert.ErrorIs(t, err, usecaseErrors.ErrEmptyFile)
	assert.Empty(t, completer.requests)
}

func TestPlaceholderProfileIsFresh(t *testing.T) {
	p := PlaceholderProfile()
	p.Subjects[0] = "changed"
	assert.Equal(t, []string{"General Education"}, PlaceholderProfile().Subjects)
}
