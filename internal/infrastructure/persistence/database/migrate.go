package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// Migrate 执行内嵌的版本化迁移（每种数据库一套SQL）
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	dialect, dir, err := migrationDialect(driver)
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(migrationsFS, "migrations/"+dir)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return err
	}
	return nil
}

func migrationDialect(driver string) (goose.Dialect, string, error) {
	switch driver {
	case config.DriverSQLite, "":
		return goose.DialectSQLite3, "sqlite", nil
	case config.DriverMySQL:
		return goose.DialectMySQL, "mysql", nil
	case config.DriverPostgres:
		return goose.DialectPostgres, "postgres", nil
	default:
		return "", "", fmt.Errorf("不支持的数据库驱动: %s", driver)
	}
}
