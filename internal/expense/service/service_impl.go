package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/expense/domain"
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
		log:   p.Log.Named("expense.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	if !req.Amount.IsPositive() {
		return domain.Expense{}, domain.ErrInvalidAmount
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = domain.DefaultPaymentMethod
	}

	entity := domain.Expense{
		ID:            s.genID.Generate(),
		Category:      category,
		Description:   strings.TrimSpace(req.Description),
		Amount:        req.Amount,
		PaymentMethod: method,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &entity); err != nil {
		return domain.Expense{}, err
	}

	s.log.Info("expense recorded",
		zap.String("expense_id", entity.ID.String()),
		zap.String("category", entity.Category),
		zap.String("amount", entity.Amount.String()),
	)
	return entity, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	pageSize := option.NormalizePageSize(int(req.PageSize))
	items, err := s.repo.List(ctx, s.db, domain.ListExpenseFilter{
		Category: strings.TrimSpace(req.Category),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}

	expenses, pageInfo := pagination.Page(items, pageSize, func(e *domain.Expense) string {
		return e.ID.String()
	})
	return domain.ListExpenseResponse{PageInfo: pageInfo, Expenses: expenses}, nil
}
