package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	customerdomain "github.com/smallbiznis/retailbook/internal/customer/domain"
	expensedomain "github.com/smallbiznis/retailbook/internal/expense/domain"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	returndomain "github.com/smallbiznis/retailbook/internal/returns/domain"
	settingdomain "github.com/smallbiznis/retailbook/internal/setting/domain"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"gorm.io/gorm"
)

//go:embed migrations
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// Models lists every table in dependency order. SQLite schemas are built
// from it directly.
func Models() []any {
	return []any{
		&supplierdomain.Supplier{},
		&customerdomain.Customer{},
		&productdomain.Product{},
		&invoicedomain.SaleInvoice{},
		&invoicedomain.SaleInvoiceItem{},
		&invoicedomain.PurchaseInvoice{},
		&invoicedomain.PurchaseInvoiceItem{},
		&returndomain.SaleReturn{},
		&returndomain.SaleReturnItem{},
		&returndomain.PurchaseReturn{},
		&returndomain.PurchaseReturnItem{},
		&inventorydomain.StockMovement{},
		&paymentdomain.Payment{},
		&expensedomain.Expense{},
		&settingdomain.Setting{},
	}
}

// Migrate brings the schema up to date for the configured database type.
// Postgres and MySQL run the versioned SQL files; SQLite is auto-migrated.
func Migrate(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	switch dbType {
	case db.TypePostgres, db.TypeMySQL:
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB, dbType)
	default:
		return AutoMigrate(conn)
	}
}

func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(sqlDB *sql.DB, dbType string) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir+"/"+dbType)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	var driver database.Driver
	switch dbType {
	case db.TypePostgres:
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	case db.TypeMySQL:
		driver, err = mysql.WithInstance(sqlDB, &mysql.Config{})
	default:
		return fmt.Errorf("unsupported migration target %q", dbType)
	}
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, dbType, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
