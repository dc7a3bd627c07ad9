package imagefetch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kidsnews/internal/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFetchOne_WritesAndCaches(t *testing.T) {
	dir := t.TempDir()
	backend := &llmtest.Images{}
	c := New(backend, Options{}, zaptest.NewLogger(t))
	ctx := context.Background()

	require.True(t, c.FetchOne(ctx, "a happy fox", "article_image.png", dir))
	data, err := os.ReadFile(filepath.Join(dir, "article_image.png"))
	require.NoError(t, err)
	assert.Equal(t, llmtest.PNG, data)
	assert.Equal(t, []string{DefaultAspectRatio}, backend.AspectRatios())

	assert.True(t, c.FetchOne(ctx, "a different fox", "article_image.png", dir))
	assert.Equal(t, 1, backend.Calls(), "cached file must not hit the backend")
}

func TestFetchOne_FailureReportsFalse(t *testing.T) {
	dir := t.TempDir()
	backend := &llmtest.Images{FailWhen: func(string) bool { return true }}
	c := New(backend, Options{}, zaptest.NewLogger(t))

	assert.False(t, c.FetchOne(context.Background(), "fox", "activity_image.png", dir))
	_, err := os.Stat(filepath.Join(dir, "activity_image.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetchSet_BoundedAndIsolated(t *testing.T) {
	dir := t.TempDir()
	backend := &llmtest.Images{
		Delay:    20 * time.Millisecond,
		FailWhen: func(p string) bool { return strings.Contains(p, "angry") },
	}
	c := New(backend, Options{}, zaptest.NewLogger(t))

	prompts := []string{"happy face", "sad face", "angry face", "surprised face", "sleepy face"}
	ok := c.FetchSet(context.Background(), prompts, dir)

	assert.Equal(t, []bool{true, true, false, true, true}, ok)
	assert.Equal(t, len(prompts), backend.Calls())
	assert.LessOrEqual(t, backend.Peak(), DefaultWorkers)
	for _, p := range backend.Prompts() {
		assert.True(t, strings.HasPrefix(p, DefaultSetPrefix), p)
	}
	for i, want := range ok {
		_, err := os.Stat(filepath.Join(dir, SetFileName(i)))
		assert.Equal(t, want, err == nil, SetFileName(i))
	}
}

func TestFetchSet_SkipsCachedMembers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SetFileName(0)), llmtest.PNG, 0o644))
	backend := &llmtest.Images{}
	c := New(backend, Options{Workers: 2}, zaptest.NewLogger(t))

	ok := c.FetchSet(context.Background(), []string{"happy", "sad"}, dir)
	assert.Equal(t, []bool{true, true}, ok)
	assert.Equal(t, 1, backend.Calls())
	assert.Empty(t, c.FetchSet(context.Background(), nil, dir))
}
