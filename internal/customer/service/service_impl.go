package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/customer/domain"
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
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: c,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	entity := domain.Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   normalizePhone(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		Address: strings.TrimSpace(req.Address),
		Balance: decimal.Zero,
	}
	if err := validate(entity); err != nil {
		return domain.Customer{}, err
	}

	entity.ID = s.genID.Generate()
	entity.CreatedAt = s.clock.Now()
	entity.UpdatedAt = entity.CreatedAt

	if err := s.repo.Insert(ctx, s.db, &entity); err != nil {
		return domain.Customer{}, err
	}

	s.log.Debug("customer created", zap.String("customer_id", entity.ID.String()))
	return entity, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	next := current
	if req.Name != nil {
		next.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		next.Phone = normalizePhone(*req.Phone)
	}
	if req.Email != nil {
		next.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		next.Address = strings.TrimSpace(*req.Address)
	}
	if err := validate(next); err != nil {
		return domain.Customer{}, err
	}
	if sameContact(next, current) {
		return current, nil
	}

	next.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, &next); err != nil {
		return domain.Customer{}, err
	}
	return next, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	pageSize := option.NormalizePageSize(int(req.PageSize))
	items, err := s.repo.List(ctx, s.db, domain.ListCustomerFilter{
		Name:        strings.TrimSpace(req.Name),
		Phone:       normalizePhone(req.Phone),
		Outstanding: req.Outstanding,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	customers, pageInfo := pagination.Page(items, pageSize, func(c *domain.Customer) string {
		return c.ID.String()
	})

	return domain.ListCustomerResponse{PageInfo: pageInfo, Customers: customers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || customerID == 0 {
		return domain.Customer{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func validate(c domain.Customer) error {
	if c.Name == "" {
		return domain.ErrInvalidName
	}
	if c.Email != "" {
		addr, err := mail.ParseAddress(c.Email)
		if err != nil || addr.Address != c.Email {
			return domain.ErrInvalidEmail
		}
	}
	return nil
}

func sameContact(a, b domain.Customer) bool {
	return a.Name == b.Name && a.Phone == b.Phone && a.Email == b.Email && a.Address == b.Address
}

// normalizePhone drops the separators cashiers tend to type so lookups
// by phone match regardless of formatting.
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}
