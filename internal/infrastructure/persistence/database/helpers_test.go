package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// newTestDB 在临时目录创建SQLite数据库并执行迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
	}
	db, err := Open(cfg, gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(context.Background(), db, cfg.Driver))
	return db
}

func intPtr(v int) *int { return &v }

func mustCreateBook(t *testing.T, repo book.Repository, title, author string, year *int, genre string) *book.Book {
	t.Helper()
	b := book.NewBook(title, author, year, genre)
	require.NoError(t, repo.Create(context.Background(), b))
	require.NotZero(t, b.ID)
	return b
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := user.NewUser(username, "$2a$04$hash", "")
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}
