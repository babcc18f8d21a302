package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/config"
	"github.com/smallbiznis/retailbook/internal/customer"
	"github.com/smallbiznis/retailbook/internal/dashboard"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	"github.com/smallbiznis/retailbook/internal/expense"
	"github.com/smallbiznis/retailbook/internal/inventory"
	"github.com/smallbiznis/retailbook/internal/invoice"
	"github.com/smallbiznis/retailbook/internal/migration"
	"github.com/smallbiznis/retailbook/internal/observability"
	"github.com/smallbiznis/retailbook/internal/payment"
	"github.com/smallbiznis/retailbook/internal/product"
	"github.com/smallbiznis/retailbook/internal/returns"
	"github.com/smallbiznis/retailbook/internal/server"
	"github.com/smallbiznis/retailbook/internal/setting"
	"github.com/smallbiznis/retailbook/internal/supplier"
	"github.com/smallbiznis/retailbook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		docnumber.Module,

		// Functional Domains
		product.Module,
		customer.Module,
		supplier.Module,
		inventory.Module,
		invoice.Module,
		returns.Module,
		payment.Module,
		expense.Module,
		setting.Module,
		dashboard.Module,
		migration.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
