// Package media uploads book cover images to object storage and removes them again.
package media

import (
	"context"
	"errors"
)

var (
	ErrInvalidPayload = errors.New("invalid image payload")
	ErrNotConfigured  = errors.New("media storage is not configured")
)

// Store persists images and hands back their public URL.
type Store interface {
	// Upload accepts a data URI, raw base64 or an http(s) URL.
	// Payloads that cannot be turned into an image wrap ErrInvalidPayload.
	Upload(ctx context.Context, image string) (string, error)
	// Delete removes the object behind url. Callers check Owns first.
	Delete(ctx context.Context, url string) error
	// Owns reports whether url points into this store.
	Owns(url string) bool
}

// Disabled is used when no bucket is configured. Uploads fail, nothing is owned.
type Disabled struct{}

func (Disabled) Upload(context.Context, string) (string, error) { return "", ErrNotConfigured }

func (Disabled) Delete(context.Context, string) error { return ErrNotConfigured }

func (Disabled) Owns(string) bool { return false }
