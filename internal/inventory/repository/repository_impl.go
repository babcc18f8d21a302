package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindStock(ctx context.Context, db *gorm.DB, productID snowflake.ID) (int64, bool, error) {
	var row struct {
		ID    snowflake.ID
		Stock int64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT id, stock FROM products WHERE id = ?`,
		productID,
	).Scan(&row).Error
	if err != nil {
		return 0, false, err
	}
	if row.ID == 0 {
		return 0, false, nil
	}
	return row.Stock, true, nil
}

func (r *repo) UpdateStock(ctx context.Context, db *gorm.DB, productID snowflake.ID, stock int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`,
		stock,
		db.NowFunc(),
		productID,
	).Error
}

func (r *repo) InsertMovement(ctx context.Context, db *gorm.DB, movement *domain.StockMovement) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO stock_movements (
			id, product_id, source_type, source_id, delta, stock_before, stock_after, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID,
		movement.ProductID,
		string(movement.SourceType),
		movement.SourceID,
		movement.Delta,
		movement.StockBefore,
		movement.StockAfter,
		movement.Note,
		movement.CreatedAt,
	).Error
}

func (r *repo) ListMovements(ctx context.Context, db *gorm.DB, productID snowflake.ID, limit int) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, source_type, source_id, delta, stock_before, stock_after, note, created_at
		 FROM stock_movements
		 WHERE product_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		productID,
		limit,
	).Scan(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}
