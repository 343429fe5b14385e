package snakenet

import (
	"bytes"
	"image"
	"time"

	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoding

	"github.com/wgamage/snakeid-go/internal/errors"
)

// channels per pixel fed to the extractor
const inputChannels = 3

// DecodeToTensor decodes image bytes, scales to a size x size RGB raster and
// returns the row-major float32 tensor with channel values normalized to [0,1].
func DecodeToTensor(data []byte, size int) ([]float32, error) {
	start := time.Now()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New(wrapSentinel(ErrInvalidImage, "decoding image: %v", err)).
			Component("snakenet").
			Category(errors.CategoryImageDecode).
			Context("image_bytes", len(data)).
			Timing("image-decode", time.Since(start)).
			Build()
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	tensor := make([]float32, size*size*inputChannels)
	i := 0
	for y := 0; y < size; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+size*4]
		for x := 0; x < size; x++ {
			tensor[i] = float32(row[x*4]) / 255.0
			tensor[i+1] = float32(row[x*4+1]) / 255.0
			tensor[i+2] = float32(row[x*4+2]) / 255.0
			i += inputChannels
		}
	}

	return tensor, nil
}
