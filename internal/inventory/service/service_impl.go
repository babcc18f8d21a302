package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/inventory/domain"
	obsmetrics "github.com/smallbiznis/retailbook/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultMovementLimit = 50

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Clock      clock.Clock         `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	clock      clock.Clock
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) domain.Ledger {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("inventory.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		clock:      c,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Apply(
	ctx context.Context,
	tx *gorm.DB,
	src domain.Source,
	adjustments []domain.Adjustment,
	policy domain.Policy,
) ([]domain.StockMovement, error) {
	if !src.Type.Valid() {
		return nil, domain.ErrInvalidSourceType
	}
	if src.ID == 0 {
		return nil, domain.ErrInvalidSourceID
	}

	now := s.clock.Now()
	movements := make([]domain.StockMovement, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.ProductID == 0 {
			return nil, domain.ErrInvalidProductID
		}
		if adj.Delta == 0 {
			continue
		}

		stock, found, err := s.repo.FindStock(ctx, tx, adj.ProductID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, domain.ErrProductNotFound
		}

		after := stock + adj.Delta
		if !policy.AllowNegativeStock && adj.Delta < 0 && after < 0 {
			return nil, &domain.InsufficientStockError{
				ProductID: adj.ProductID,
				Stock:     stock,
				Delta:     adj.Delta,
			}
		}

		if err := s.repo.UpdateStock(ctx, tx, adj.ProductID, after); err != nil {
			return nil, err
		}

		movement := domain.StockMovement{
			ID:          s.genID.Generate(),
			ProductID:   adj.ProductID,
			SourceType:  src.Type,
			SourceID:    src.ID,
			Delta:       adj.Delta,
			StockBefore: stock,
			StockAfter:  after,
			Note:        strings.TrimSpace(src.Note),
			CreatedAt:   now,
		}
		if err := s.repo.InsertMovement(ctx, tx, &movement); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return movements, nil
}

func (s *Service) AdjustStock(ctx context.Context, req domain.AdjustStockRequest) (domain.StockMovement, error) {
	productID, err := parseProductID(req.ProductID)
	if err != nil {
		return domain.StockMovement{}, err
	}
	if req.Delta == 0 {
		return domain.StockMovement{}, domain.ErrInvalidDelta
	}

	src := domain.Source{
		Type: domain.SourceTypeManualAdjustment,
		ID:   s.genID.Generate(),
		Note: req.Note,
	}

	var movement domain.StockMovement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movements, err := s.Apply(ctx, tx, src, []domain.Adjustment{{
			ProductID: productID,
			Delta:     req.Delta,
		}}, domain.Policy{AllowNegativeStock: false})
		if err != nil {
			return err
		}
		movement = movements[0]
		return nil
	})
	if err != nil {
		return domain.StockMovement{}, err
	}

	s.obsMetrics.RecordStockMovement(ctx, string(src.Type), 1)
	s.log.Info("stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int64("delta", req.Delta),
		zap.Int64("stock_after", movement.StockAfter),
	)
	return movement, nil
}

func (s *Service) ListMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultMovementLimit*4 {
		limit = defaultMovementLimit
	}
	return s.repo.ListMovements(ctx, s.db, id, limit)
}

func parseProductID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidProductID
	}
	return id, nil
}
