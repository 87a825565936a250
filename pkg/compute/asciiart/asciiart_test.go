package asciiart

import (
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/activeflow/internal/testutil"
)

func TestChar(t *testing.T) {
	tests := []struct {
		lum  float64
		want byte
	}{
		{255, ' '},
		{240, ' '},
		{239.9, '.'},
		{210, '.'},
		{190, '*'},
		{170, '+'},
		{120, '^'},
		{110, '&'},
		{80, '8'},
		{60, '#'},
		{59.9, '@'},
		{0, '@'},
	}

	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(Char(tt.lum)), "luminance %v", tt.lum)
	}
}

func TestLuminanceWeights(t *testing.T) {
	assert.InDelta(t, 255.0, Luminance(255, 255, 255), 1e-9)
	assert.InDelta(t, 76.5, Luminance(255, 0, 0), 1e-9)
	assert.InDelta(t, 28.05, Luminance(0, 255, 0), 1e-9)
	assert.InDelta(t, 150.45, Luminance(0, 0, 255), 1e-9)
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	img.Set(2, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{G: 255, A: 255})
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	img.Set(2, 1, color.Gray{Y: 200})
	return img
}

const testArt = " @#\n@^*\n"

func TestConvert(t *testing.T) {
	w := testutil.NewMockWriter()
	require.NoError(t, Convert(testImage(), w))
	assert.Equal(t, testArt, w.String())
}

func TestConvertWriteError(t *testing.T) {
	w := testutil.NewMockWriter()
	w.FailAfter(0, stderrors.New("disk full"))

	err := Convert(testImage(), w)
	assert.EqualError(t, err, "disk full")
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.txt")
	writePNG(t, in, testImage())

	require.NoError(t, ConvertFile(in, out))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testArt, string(got))
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := ConvertFile(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o600))
	err = ConvertFile(garbage, filepath.Join(dir, "out.txt"))
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestTask(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, testImage())

	ok, err := Task(in, filepath.Join(dir, "out.txt")).Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Task(filepath.Join(dir, "missing.png"), filepath.Join(dir, "x.txt")).Execute(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Task(in, filepath.Join(dir, "y.txt")).Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
