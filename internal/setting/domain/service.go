package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Get returns the stored value, falling back to the store profile
	// default when the key was never written.
	Get(ctx context.Context, key string) (Setting, error)
	Set(ctx context.Context, key, value string) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
	EnsureDefaults(ctx context.Context) error
}

var (
	ErrInvalidKey = errors.New("invalid_key")
	ErrNotFound   = errors.New("not_found")
)
