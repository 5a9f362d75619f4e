package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("should produce an encoded argon2id hash", func(t *testing.T) {
		req := require.New(t)

		hash, err := HashPassword("correct horse battery staple")

		req.NoError(err)
		req.True(strings.HasPrefix(hash, "$argon2id$"))
		req.Len(strings.Split(hash, "$"), 6)
	})

	t.Run("should salt each hash independently", func(t *testing.T) {
		req := require.New(t)

		first, err := HashPassword("same password")
		req.NoError(err)

		second, err := HashPassword("same password")
		req.NoError(err)

		req.NotEqual(first, second)
	})
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	t.Run("should match the original password", func(t *testing.T) {
		req := require.New(t)

		match, err := ComparePassword("s3cret-pass", hash)

		req.NoError(err)
		req.True(match)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)

		match, err := ComparePassword("s3cret-pass!", hash)

		req.NoError(err)
		req.False(match)
	})

	t.Run("should fail on a malformed hash", func(t *testing.T) {
		req := require.New(t)

		_, err := ComparePassword("anything", "not-an-encoded-hash")

		req.Error(err)
	})
}
