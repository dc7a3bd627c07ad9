package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"kidsnews/internal/activity"
	"kidsnews/internal/decode"
	"kidsnews/internal/imagefetch"
	"kidsnews/internal/llm/llmtest"
	"kidsnews/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New("", zaptest.NewLogger(t))
	require.NoError(t, err)
	return r
}

func TestSampleRecord_EveryKindIsComplete(t *testing.T) {
	for _, kind := range activity.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			rec := SampleRecord(kind)
			assert.True(t, rec.HasArticle())
			assert.Equal(t, kind, rec.ActivityType)
			require.NotNil(t, rec.ActivityData)
			assert.Equal(t, kind, rec.ActivityData.Kind())
		})
	}
}

func TestBuild_Samples(t *testing.T) {
	out := t.TempDir()
	b := &Builder{Renderer: newRenderer(t), Log: zaptest.NewLogger(t)}

	built, err := b.Build(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, activity.Kinds, built)

	for _, kind := range activity.Kinds {
		assert.FileExists(t, filepath.Join(out, string(kind), render.Page1File))
		assert.FileExists(t, filepath.Join(out, string(kind), render.Page2File))
	}

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	for _, kind := range activity.Kinds {
		assert.Contains(t, string(index), string(kind)+"/page2.html")
	}

	page1, err := os.ReadFile(filepath.Join(out, string(activity.KindColoringPage), render.Page1File))
	require.NoError(t, err)
	assert.Contains(t, string(page1), DefaultMeta.IssueLabel)
}

func TestBuild_Live(t *testing.T) {
	log := zaptest.NewLogger(t)
	text := &llmtest.Text{Respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "true-or-false") {
			return `{"instruction": "Live quiz", "items": ["Robots sleep at night."]}`, nil
		}
		return "", errors.New("offline")
	}}
	images := &llmtest.Images{}

	out := t.TempDir()
	b := &Builder{
		Renderer:   newRenderer(t),
		Activities: activity.NewDispatcher(text, decode.Decoder{}, log),
		Images:     imagefetch.New(images, imagefetch.Options{}, log),
		Log:        log,
	}
	built, err := b.Build(context.Background(), out)
	require.NoError(t, err)
	assert.Len(t, built, len(activity.Kinds))

	page2, err := os.ReadFile(filepath.Join(out, string(activity.KindTrueFalseQuiz), render.Page2File))
	require.NoError(t, err)
	assert.Contains(t, string(page2), "Robots sleep at night.")

	// Every kind gets the article illustration.
	for _, kind := range activity.Kinds {
		assert.FileExists(t, filepath.Join(out, string(kind), render.ArticleImageFile))
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &Builder{Renderer: newRenderer(t)}
	_, err := b.Build(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "activities"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 50*time.Millisecond, zaptest.NewLogger(t), func() error {
			rebuilds.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "activities", "coloring-page.html"), []byte("<p>hi</p>"), 0o644))

	assert.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0, nil, func() error { return nil })
	assert.Error(t, err)
}
