package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestMerge_StacksVertically(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	p1 := filepath.Join(dir, "page1.png")
	p2 := filepath.Join(dir, "page2.png")
	writePNG(t, p1, 8, 5, red)
	writePNG(t, p2, 6, 4, blue)

	out := filepath.Join(dir, MergedFile)
	require.NoError(t, Merge([]string{p1, p2}, out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	merged, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 8, 9), merged.Bounds())
	assertColor(t, red, merged.At(0, 0))
	assertColor(t, red, merged.At(7, 4))
	assertColor(t, blue, merged.At(0, 5))
	assertColor(t, color.White, merged.At(7, 8), "narrow pages are padded with white")
}

func TestMerge_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, Merge(nil, filepath.Join(dir, MergedFile)), ErrNothingToMerge)
	assert.Error(t, Merge([]string{filepath.Join(dir, "missing.png")}, filepath.Join(dir, MergedFile)))
	_, err := os.Stat(filepath.Join(dir, MergedFile))
	assert.True(t, os.IsNotExist(err))
}

func TestConfig_Defaults(t *testing.T) {
	var zero Config
	assert.Equal(t, 794, zero.GetWidth())
	assert.Equal(t, 1123, zero.GetHeight())
	assert.Equal(t, 2.0, zero.GetScale())
	assert.Equal(t, DefaultConfig().NavigationTimeout(), zero.NavigationTimeout())
}

func assertColor(t *testing.T, want, got color.Color, msgAndArgs ...interface{}) {
	t.Helper()
	wr, wg, wb, wa := want.RGBA()
	gr, gg, gb, ga := got.RGBA()
	assert.Equal(t, [4]uint32{wr, wg, wb, wa}, [4]uint32{gr, gg, gb, ga}, msgAndArgs...)
}
