package images

import (
	"encoding/base64"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSkipsCMYK(t *testing.T) {
	img := image.NewCMYK(image.Rect(0, 0, 4, 4))
	_, ok := Encode(img, 1)
	assert.False(t, ok)
}

func TestEncodeAlphaAsPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})
	rec, ok := Encode(img, 3)
	require.True(t, ok)
	assert.Equal(t, "image/png", rec.MIMEType)
	assert.Equal(t, 3, rec.Page)
	assert.NotEmpty(t, rec.ID)

	data, err := base64.StdEncoding.DecodeString(rec.Data)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestEncodeNoAlphaChannelAsJPEG(t *testing.T) {
	for _, img := range []image.Image{
		image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420),
		image.NewGray(image.Rect(0, 0, 4, 4)),
	} {
		rec, ok := Encode(img, 1)
		require.True(t, ok)
		assert.Equal(t, "image/jpeg", rec.MIMEType)
	}
}

func TestEncodeOpaqueAlphaChannelStaysPNG(t *testing.T) {
	// format decides, not pixel content: every alpha value is 255 here
	// but the channel is still preserved through PNG
	op := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			op.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	rec, ok := Encode(op, 1)
	require.True(t, ok)
	assert.Equal(t, "image/png", rec.MIMEType)

	rec, ok = Encode(image.NewRGBA(image.Rect(0, 0, 2, 2)), 1)
	require.True(t, ok)
	assert.Equal(t, "image/png", rec.MIMEType)
}
