package db

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	config "github.com/Keoroanthony/go-foodorders/configs"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
)

// Open connects gorm for the SQL drivers and migrates the key-value table.
func Open(cfg config.StorageConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := gdb.AutoMigrate(&storage.Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	return gdb, nil
}

// NewStore builds the configured storage backend. The returned close function
// releases its connections.
func NewStore(ctx context.Context, cfg config.StorageConfig, log *logrus.Entry) (storage.Store, func() error, error) {
	log = log.WithField("driver", cfg.Driver)

	switch cfg.Driver {
	case "", "memory":
		log.Info("Using in-memory storage")
		return storage.NewMemoryStore(), func() error { return nil }, nil

	case "redis":
		client, err := storage.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("namespace", cfg.RedisNamespace).Info("Redis storage connected")
		return storage.NewRedisStore(client, cfg.RedisNamespace), client.Close, nil

	case "postgres", "sqlite":
		gdb, err := Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Info("Database connected and migrated successfully")
		return storage.NewGormStore(gdb), sqlDB.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
