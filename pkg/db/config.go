package db

import "github.com/smallbiznis/retailbook/internal/config"

type Config struct {
	Type            string
	Path            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	Metrics         bool
	Debug           bool
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		Type:            cfg.DBType,
		Path:            cfg.DBPath,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		SSLMode:         cfg.DBSSLMode,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		Metrics:         cfg.DBMetrics,
	}
}

// IsSQLite reports whether the config targets an embedded SQLite file.
func (c Config) IsSQLite() bool {
	return c.Type == TypeSQLite || c.Type == TypeSQLiteCGO
}
