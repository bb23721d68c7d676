package transcript

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/cache"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/intake"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
)

type fakeAnalyzer struct {
	got         []string
	suggestions []entities.Suggestion
	err         error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, transcript string) ([]entities.Suggestion, error) {
	f.got = append(f.got, transcript)
	return f.suggestions, f.err
}

func newService(t *testing.T, analyzer Analyzer) (*Service, *workflow.Service) {
	t.Helper()
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	wf := workflow.NewService(store, nil, 0, 0, nil)
	return NewService(intake.NewService(1<<20, nil), analyzer, wf, nil), wf
}

func suggestions() []entities.Suggestion {
	return []entities.Suggestion{
		entities.PostSuggestion{Content: "Short one", PostType: entities.PostTypeShort},
		entities.PostSuggestion{Content: "Long one", PostType: entities.PostTypeArticle},
		entities.ProfileSuggestion{Title: "Teacher"},
	}
}

func TestProcessSubtitleUpload(t *testing.T) {
	analyzer := &fakeAnalyzer{suggestions: suggestions()}
	svc, _ := newService(t, analyzer)

	vtt := "WEBVTT\n\n1\n00:00:01.000 --> 00:00:04.000\nHello class\n"
	res, err := svc.Process(context.Background(), "anon:ws-1", &intake.File{
		Name:        "chat.vtt",
		ContentType: "application/octet-stream",
		Content:     strings.NewReader(vtt),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello class"}, analyzer.got)
	assert.Equal(t, entities.TranscriptSubtitle, res.Format)
	assert.Equal(t, workflow.PhasePending, res.View.Phase)
	assert.Equal(t, 2, res.View.Total)
	assert.Equal(t, 0, res.View.Selected)
	require.NotNil(t, res.View.Profile)
	assert.Equal(t, "Teacher", res.View.Profile.Title)
}

func TestProcessIntakeErrorSkipsAnalysis(t *testing.T) {
	analyzer := &fakeAnalyzer{suggestions: suggestions()}
	svc, _ := newService(t, analyzer)

	_, err := svc.Process(context.Background(), "k", &intake.File{
		Name:        "notes.pdf",
		ContentType: "application/pdf",
		Content:     strings.NewReader("%PDF"),
	})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidFileType)
	assert.Empty(t, analyzer.got)

	_, err = svc.Process(context.Background(), "k", nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrNoFileSelected)
}

func TestProcessAnalysisFailureKeepsPendingSet(t *testing.T) {
	analyzer := &fakeAnalyzer{suggestions: suggestions()}
	svc, wf := newService(t, analyzer)
	ctx := context.Background()
	file := func() *intake.File {
		return &intake.File{Name: "a.txt", ContentType: "text/plain", Content: strings.NewReader("We talked.")}
	}

	_, err := svc.Process(ctx, "k", file())
	require.NoError(t, err)

	analyzer.suggestions, analyzer.err = nil, usecaseErrors.ErrAnalysisTimeout
	_, err = svc.Process(ctx, "k", file())
	assert.ErrorIs(t, err, usecaseErrors.ErrAnalysisTimeout)

	view, err := wf.View(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)
}

func TestProcessRequiresOwner(t *testing.T) {
	svc, _ := newService(t, &fakeAnalyzer{})
	_, err := svc.Process(context.Background(), "", &intake.File{})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}
