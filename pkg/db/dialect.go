package db

import (
	"fmt"
	"strings"

	puresqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	TypeSQLite    = "sqlite"
	TypeSQLiteCGO = "sqlite3"
	TypePostgres  = "postgres"
	TypeMySQL     = "mysql"
)

func Dialect(cfg Config) (gorm.Dialector, error) {
	switch cfg.Type {
	case TypeMySQL:
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)), nil
	case TypePostgres:
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.Port,
			cfg.SSLMode,
		)), nil
	case TypeSQLite, "":
		// Pure Go driver; pragmas use the _pragma query form.
		return puresqlite.Open(withParams(sqlitePath(cfg), "_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)")), nil
	case TypeSQLiteCGO:
		return sqlite.Open(withParams(sqlitePath(cfg), "_foreign_keys=on", "_busy_timeout=5000")), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.Type)
	}
}

func sqlitePath(cfg Config) string {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return "retailbook.db"
	}
	return path
}

func withParams(dsn string, params ...string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
