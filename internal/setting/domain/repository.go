package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, key string) (*Setting, error)
	List(ctx context.Context, db *gorm.DB) ([]Setting, error)
	Upsert(ctx context.Context, db *gorm.DB, setting *Setting) error
	// InsertMissing writes only the keys that are not stored yet.
	InsertMissing(ctx context.Context, db *gorm.DB, settings []Setting) error
}
