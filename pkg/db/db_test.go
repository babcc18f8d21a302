package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestDialectNames(t *testing.T) {
	cases := map[string]string{
		TypeSQLite:    "sqlite",
		TypeSQLiteCGO: "sqlite",
		TypePostgres:  "postgres",
		TypeMySQL:     "mysql",
	}
	for typ, want := range cases {
		dialector, err := Dialect(Config{Type: typ, Path: "x.db"})
		require.NoError(t, err)
		assert.Equal(t, want, dialector.Name(), typ)
	}
}

func TestWithParams(t *testing.T) {
	assert.Equal(t, "a.db?x=1&y=2", withParams("a.db", "x=1", "y=2"))
	assert.Equal(t, "file:a?mode=memory&x=1", withParams("file:a?mode=memory", "x=1"))
}

func TestOpenAndCloseSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	conn, err := Open(Config{Type: TypeSQLite, Path: path})
	require.NoError(t, err)

	var fk int
	require.NoError(t, conn.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	require.NoError(t, Close(conn))
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsDuplicateKeyErr(&gomysql.MySQLError{Number: 1062}))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: sale_invoices.invoice_number")))
	assert.False(t, IsDuplicateKeyErr(errors.New("no such table")))
}

func TestIsForeignKeyErr(t *testing.T) {
	assert.False(t, IsForeignKeyErr(nil))
	assert.True(t, IsForeignKeyErr(gorm.ErrForeignKeyViolated))
	assert.True(t, IsForeignKeyErr(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyErr(&gomysql.MySQLError{Number: 1452}))
	assert.True(t, IsForeignKeyErr(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyErr(errors.New("UNIQUE constraint failed")))
}
