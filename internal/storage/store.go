// Package storage persists uploaded recipe images.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that would escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ImageStore saves and removes image objects addressed by a slash separated
// key.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewImageKey returns a fresh key for a recipe image. The stem is a random
// UUID; only the extension comes from the detected image format.
func NewImageKey(ext string) string {
	return path.Join("uploads", "recipe", uuid.NewString()+ext)
}

func validKey(key string) bool {
	if key == "" || path.IsAbs(key) {
		return false
	}
	clean := path.Clean(key)
	return clean == key && clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}
