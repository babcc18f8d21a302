package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/supplier/domain"
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
		log:   p.Log.Named("supplier.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSupplierRequest) (domain.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Supplier{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Supplier{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	entity := domain.Supplier{
		ID:            s.genID.Generate(),
		Name:          name,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         email,
		Address:       strings.TrimSpace(req.Address),
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &entity); err != nil {
		return domain.Supplier{}, err
	}

	return entity, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSupplierRequest) (domain.ListSupplierResponse, error) {
	pageSize := option.NormalizePageSize(int(req.PageSize))
	items, err := s.repo.List(ctx, s.db, domain.ListSupplierFilter{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListSupplierResponse{}, err
	}

	suppliers, pageInfo := pagination.Page(items, pageSize, func(c *domain.Supplier) string {
		return c.ID.String()
	})

	return domain.ListSupplierResponse{PageInfo: pageInfo, Suppliers: suppliers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Supplier, error) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || supplierID == 0 {
		return domain.Supplier{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, supplierID)
	if err != nil {
		return domain.Supplier{}, err
	}
	if item == nil {
		return domain.Supplier{}, domain.ErrNotFound
	}

	return *item, nil
}
