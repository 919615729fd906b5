package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/models"

	"gorm.io/gorm"
)

// InitDatabase 打开连接、迁移表结构并确保至少有一个管理员
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	if err := ensureSQLiteDir(cfg.Database); err != nil {
		return nil, err
	}
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
	}, cfg.Server.Mode == "debug"); err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	boot := cfg.Bootstrap
	if err := models.InitDefaultAdmin(models.DB, boot.AdminUsername, boot.AdminEmail, boot.AdminPassword); err != nil {
		return nil, fmt.Errorf("init default admin: %w", err)
	}
	return models.DB, nil
}

// ensureSQLiteDir sqlite 文件所在目录不存在时自动创建
func ensureSQLiteDir(cfg config.DatabaseConfig) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver != "" && driver != "sqlite" {
		return nil
	}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	if idx := strings.Index(dsn, "?"); idx >= 0 {
		dsn = dsn[:idx]
	}
	dir := filepath.Dir(dsn)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
