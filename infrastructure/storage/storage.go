package storage

import "context"

// Driver is an object store for uploaded avatars. Put overwrites any prior
// object at the same key; URL resolves the public URL for a key.
type Driver interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// AvatarKey returns the object key for a user's avatar. One key per user,
// so a re-upload overwrites the previous image.
func AvatarKey(userID string) string {
	return "profile_images/" + userID
}
