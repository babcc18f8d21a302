package repository

import (
	"context"

	"github.com/smallbiznis/retailbook/internal/setting/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// "key" is reserved in mysql, so queries go through the builder which
// quotes column names per dialect.

func (r *repo) Find(ctx context.Context, db *gorm.DB, key string) (*domain.Setting, error) {
	var settings []domain.Setting
	err := db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).
		Limit(1).
		Find(&settings).Error
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, nil
	}
	return &settings[0], nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Setting, error) {
	var settings []domain.Setting
	err := db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, setting *domain.Setting) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}

func (r *repo) InsertMissing(ctx context.Context, db *gorm.DB, settings []domain.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&settings).Error
}
