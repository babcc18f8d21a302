package migration

import (
	"context"

	settingdomain "github.com/smallbiznis/retailbook/internal/setting/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg db.Config, settings settingdomain.Service, log *zap.Logger) error {
		if err := Migrate(conn, cfg.Type); err != nil {
			return err
		}
		if err := settings.EnsureDefaults(context.Background()); err != nil {
			return err
		}
		log.Info("schema ready", zap.String("type", cfg.Type))
		return nil
	}),
)
