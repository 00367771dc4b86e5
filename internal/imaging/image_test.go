package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// framed returns a size x size transparent image with an opaque square of c
// covering [from, to) on both axes.
func framed(size, from, to int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := from; y < to; y++ {
		for x := from; x < to; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestCropToContent(t *testing.T) {
	img := framed(100, 20, 60, color.NRGBA{R: 200, A: 255})

	got := CropToContent(img)
	assert.Equal(t, 40, got.Bounds().Dx())
	assert.Equal(t, 40, got.Bounds().Dy())

	_, _, _, a := got.At(0, 0).RGBA()
	assert.NotZero(t, a)
}

func TestCropToContent_FullyTransparentUnchanged(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.Same(t, img, CropToContent(img).(*image.NRGBA))
}

func TestFit(t *testing.T) {
	img := framed(400, 0, 400, color.NRGBA{A: 255})

	got := Fit(img, 100)
	assert.Equal(t, 100, got.Bounds().Dx())

	assert.Same(t, img, Fit(img, 0).(*image.NRGBA))
	assert.Same(t, img, Fit(img, 1000).(*image.NRGBA))
}

func TestDecodeRoundTrip(t *testing.T) {
	data, err := EncodePNG(framed(16, 4, 12, color.NRGBA{G: 255, A: 255}))
	require.NoError(t, err)

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
}
