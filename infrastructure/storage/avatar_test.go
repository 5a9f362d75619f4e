package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeAvatar(t *testing.T) {
	t.Run("should downscale a large image into the bounding square", func(t *testing.T) {
		req := require.New(t)

		data := pngFixture(t, 1024, 512)

		normalized, contentType, err := NormalizeAvatar(data, "image/png")
		req.NoError(err)
		req.Equal("image/jpeg", contentType)

		decoded, err := imaging.Decode(bytes.NewReader(normalized))
		req.NoError(err)
		bounds := decoded.Bounds()
		req.LessOrEqual(bounds.Dx(), 256)
		req.LessOrEqual(bounds.Dy(), 256)
	})

	t.Run("should re-encode small images as jpeg without upscaling", func(t *testing.T) {
		req := require.New(t)

		data := pngFixture(t, 64, 64)

		normalized, contentType, err := NormalizeAvatar(data, "image/png")
		req.NoError(err)
		req.Equal("image/jpeg", contentType)

		decoded, err := imaging.Decode(bytes.NewReader(normalized))
		req.NoError(err)
		req.Equal(64, decoded.Bounds().Dx())
	})

	t.Run("should reject an unsupported content type", func(t *testing.T) {
		req := require.New(t)

		_, _, err := NormalizeAvatar(pngFixture(t, 8, 8), "image/svg+xml")

		req.ErrorIs(err, ErrInvalidImageType)
	})

	t.Run("should reject oversized uploads before decoding", func(t *testing.T) {
		req := require.New(t)

		_, _, err := NormalizeAvatar(make([]byte, MaxAvatarSize+1), "image/png")

		req.ErrorIs(err, ErrAvatarTooLarge)
	})

	t.Run("should fail on data that is not an image", func(t *testing.T) {
		req := require.New(t)

		_, _, err := NormalizeAvatar([]byte("definitely not pixels"), "image/png")

		req.Error(err)
	})
}

func TestIsValidImageType(t *testing.T) {
	req := require.New(t)

	req.True(IsValidImageType("image/jpeg"))
	req.True(IsValidImageType(" IMAGE/PNG "))
	req.True(IsValidImageType("image/gif"))
	req.False(IsValidImageType("image/webp"))
	req.False(IsValidImageType(""))
}

func TestAvatarKey(t *testing.T) {
	req := require.New(t)

	req.Equal("profile_images/u1", AvatarKey("u1"))
	// One key per user means a re-upload overwrites the previous object.
	req.Equal(AvatarKey("u1"), AvatarKey("u1"))
}
