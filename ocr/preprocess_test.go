package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessImageInvalidInput(t *testing.T) {
	_, err := PreprocessImage([]byte("definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding image")
}

func TestPreprocessImageUpscalesSmallImages(t *testing.T) {
	processed, err := PreprocessImage(encodePNG(t, 200, 100))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(processed))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, minOCRWidth, cfg.Width)
	// Aspect ratio is preserved.
	assert.Equal(t, minOCRWidth/2, cfg.Height)
}

func TestPreprocessImageKeepsLargeImages(t *testing.T) {
	processed, err := PreprocessImage(encodePNG(t, 1200, 300))
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(processed))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}
