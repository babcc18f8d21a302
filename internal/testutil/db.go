// Package testutil builds in-memory stores for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/migration"
	"github.com/smallbiznis/retailbook/pkg/db"
	"gorm.io/gorm"
)

var seq atomic.Int64

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// Each call gets its own database; it is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), seq.Add(1))
	conn, err := db.Open(db.Config{Type: db.TypeSQLite, Path: dsn})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })

	if err := migration.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func NewNode(t *testing.T) *snowflake.Node {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

// AssertCount fails the test unless table holds want rows.
func AssertCount(t *testing.T, conn *gorm.DB, table string, want int64) {
	t.Helper()

	var got int64
	if err := conn.Table(table).Count(&got).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	if got != want {
		t.Fatalf("expected %d rows in %s, got %d", want, table, got)
	}
}
