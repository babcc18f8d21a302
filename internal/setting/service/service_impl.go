package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/smallbiznis/retailbook/internal/config"
	"github.com/smallbiznis/retailbook/internal/setting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxKeyLength = 100

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Store *config.StoreConfigHolder
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	store *config.StoreConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("setting.service"),
		repo:  p.Repo,
		store: p.Store,
	}
}

func (s *Service) Get(ctx context.Context, key string) (domain.Setting, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return domain.Setting{}, err
	}

	item, err := s.repo.Find(ctx, s.db, key)
	if err != nil {
		return domain.Setting{}, err
	}
	if item != nil {
		return *item, nil
	}

	if value, ok := s.defaults()[key]; ok {
		return domain.Setting{Key: key, Value: value}, nil
	}
	return domain.Setting{}, domain.ErrNotFound
}

func (s *Service) Set(ctx context.Context, key, value string) (domain.Setting, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return domain.Setting{}, err
	}

	entity := domain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, s.db, &entity); err != nil {
		return domain.Setting{}, err
	}

	s.log.Info("setting updated", zap.String("key", key))
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Setting, error) {
	stored, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]domain.Setting, len(stored))
	for key, value := range s.defaults() {
		merged[key] = domain.Setting{Key: key, Value: value}
	}
	for _, item := range stored {
		merged[item.Key] = item
	}

	out := make([]domain.Setting, 0, len(merged))
	for _, item := range merged {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Service) EnsureDefaults(ctx context.Context) error {
	defaults := s.defaults()
	if len(defaults) == 0 {
		return nil
	}

	now := time.Now().UTC()
	seed := make([]domain.Setting, 0, len(defaults))
	for key, value := range defaults {
		seed = append(seed, domain.Setting{Key: key, Value: value, UpdatedAt: now})
	}
	sort.Slice(seed, func(i, j int) bool { return seed[i].Key < seed[j].Key })

	if err := s.repo.InsertMissing(ctx, s.db, seed); err != nil {
		return err
	}
	s.log.Debug("settings defaults ensured", zap.Int("keys", len(seed)))
	return nil
}

func (s *Service) defaults() map[string]string {
	if s.store == nil {
		return config.DefaultStoreConfig().Settings()
	}
	return s.store.Get().Settings()
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > maxKeyLength {
		return "", domain.ErrInvalidKey
	}
	return key, nil
}
