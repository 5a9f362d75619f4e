package storage

import (
	"bytes"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	// MaxAvatarSize caps uploads before decoding.
	MaxAvatarSize = 5 * 1024 * 1024 // 5MB

	// avatarDimension is the bounding square avatars are resized into.
	avatarDimension = 256
)

var ErrInvalidImageType = errors.New("avatar must be a jpeg, png or gif image")
var ErrAvatarTooLarge = errors.New("avatar exceeds the maximum allowed size of 5MB")

func IsValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	return validTypes[contentType]
}

// NormalizeAvatar validates the upload and downscales it to a bounded
// square, re-encoded as JPEG. Every stored avatar ends up the same format
// and size regardless of what the client sent.
func NormalizeAvatar(data []byte, contentType string) ([]byte, string, error) {
	if len(data) > MaxAvatarSize {
		return nil, "", ErrAvatarTooLarge
	}

	if !IsValidImageType(contentType) {
		return nil, "", ErrInvalidImageType
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to decode avatar image")
	}

	resized := imaging.Fit(img, avatarDimension, avatarDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", errors.Wrap(err, "failed to encode avatar image")
	}

	return buf.Bytes(), "image/jpeg", nil
}
