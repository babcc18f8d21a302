package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/product/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Product{}, domain.ErrInvalidCategory
	}
	if req.CostPrice == nil || req.CostPrice.IsNegative() {
		return domain.Product{}, domain.ErrInvalidCostPrice
	}
	if req.SalePrice == nil || req.SalePrice.IsNegative() {
		return domain.Product{}, domain.ErrInvalidSalePrice
	}
	if req.WholesalePrice.IsNegative() {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if req.Stock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}

	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return domain.Product{}, domain.ErrInvalidStatus
	}

	reorderLevel := int64(10)
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return domain.Product{}, domain.ErrInvalidReorderLevel
		}
		reorderLevel = *req.ReorderLevel
	}

	conversionRate := decimal.NewFromInt(1)
	if req.ConversionRate != nil && req.ConversionRate.IsPositive() {
		conversionRate = *req.ConversionRate
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "Piece"
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:              s.genID.Generate(),
		Name:            name,
		SKU:             optionalString(req.SKU),
		Category:        category,
		SubCategory:     strings.TrimSpace(req.SubCategory),
		Brand:           strings.TrimSpace(req.Brand),
		Unit:            unit,
		ConversionRate:  conversionRate,
		ConversionUnit:  strings.TrimSpace(req.ConversionUnit),
		CostPrice:       *req.CostPrice,
		SalePrice:       *req.SalePrice,
		WholesalePrice:  req.WholesalePrice,
		Stock:           req.Stock,
		ReorderLevel:    reorderLevel,
		SupplierID:      req.SupplierID,
		Status:          status,
		ExpiryDate:      utcPtr(req.ExpiryDate),
		ManufactureDate: utcPtr(req.ManufactureDate),
		Description:     strings.TrimSpace(req.Description),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Product{}, domain.ErrDuplicateSKU
		}
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Product, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Product{}, err
	}

	var updated domain.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		if err := applyUpdate(product, req); err != nil {
			return err
		}
		product.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, tx, product); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateSKU
			}
			return err
		}
		updated = *product
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	return updated, nil
}

func applyUpdate(p *domain.Product, req domain.UpdateRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ErrInvalidName
		}
		p.Name = name
	}
	if req.SKU != nil {
		p.SKU = optionalString(*req.SKU)
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return domain.ErrInvalidCategory
		}
		p.Category = category
	}
	if req.SubCategory != nil {
		p.SubCategory = strings.TrimSpace(*req.SubCategory)
	}
	if req.Brand != nil {
		p.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Unit != nil && strings.TrimSpace(*req.Unit) != "" {
		p.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return domain.ErrInvalidCostPrice
		}
		p.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return domain.ErrInvalidSalePrice
		}
		p.SalePrice = *req.SalePrice
	}
	if req.WholesalePrice != nil {
		if req.WholesalePrice.IsNegative() {
			return domain.ErrInvalidPrice
		}
		p.WholesalePrice = *req.WholesalePrice
	}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return domain.ErrInvalidReorderLevel
		}
		p.ReorderLevel = *req.ReorderLevel
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return domain.ErrInvalidStatus
		}
		p.Status = *req.Status
	}
	if req.ExpiryDate != nil {
		p.ExpiryDate = utcPtr(req.ExpiryDate)
	}
	if req.ManufactureDate != nil {
		p.ManufactureDate = utcPtr(req.ManufactureDate)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return domain.Product{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	if req.Status != "" && !req.Status.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}

	pageSize := option.NormalizePageSize(int(req.PageSize))
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Status:   req.Status,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	products, pageInfo := pagination.Page(items, pageSize, func(p *domain.Product) string {
		return p.ID.String()
	})

	return domain.ListResponse{PageInfo: pageInfo, Products: products}, nil
}

func (s *Service) ListOutOfStock(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListOutOfStock(ctx, s.db)
}

func (s *Service) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListLowStock(ctx, s.db)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
