package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/logger"
)

// RunMigrations は reservations / reservation_seats のスキーマを最新にする
// migrationsPath はディレクトリパスか file:// 付きのURL
func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("マイグレーションドライバー作成エラー: %w", err)
	}

	source := migrationsPath
	if !strings.Contains(source, "://") {
		source = "file://" + source
	}
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("マイグレーションインスタンス作成エラー: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("マイグレーション実行エラー: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("マイグレーションバージョン取得エラー: %w", err)
	}
	if dirty {
		return fmt.Errorf("スキーマが不整合な状態です（version=%d）", version)
	}
	logger.Info("マイグレーション適用済み", zap.Uint("version", version))
	return nil
}
