package snakenet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgamage/snakeid-go/internal/errors"
)

// encodeTestPNG renders a solid-color image and returns its PNG bytes.
func encodeTestPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeToTensorShapeAndRange(t *testing.T) {
	t.Parallel()

	data := encodeTestPNG(t, 100, 60, color.RGBA{R: 255, G: 128, B: 0, A: 255})

	tensor, err := DecodeToTensor(data, 8)
	require.NoError(t, err)
	require.Len(t, tensor, 8*8*3)

	for i, v := range tensor {
		assert.GreaterOrEqual(t, v, float32(0.0), "value %d below range", i)
		assert.LessOrEqual(t, v, float32(1.0), "value %d above range", i)
	}

	// Solid color survives scaling: first pixel carries the source channels.
	assert.InDelta(t, 1.0, tensor[0], 0.01)
	assert.InDelta(t, 128.0/255.0, tensor[1], 0.01)
	assert.InDelta(t, 0.0, tensor[2], 0.01)
}

func TestDecodeToTensorRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := DecodeToTensor([]byte("definitely not an image"), 8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidImage))
}

func TestDecodeToTensorRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := DecodeToTensor(nil, 8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidImage))
}
