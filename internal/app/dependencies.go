package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
	"github.com/vladislavdragonenkov/orderlife/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderlife/internal/storage/postgres"
)

// Dependencies содержит зависимости приложения. Store заполнен только для
// бэкенда postgres.
type Dependencies struct {
	Repo   domain.OrderRepository
	Store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies выбирает бэкенд хранилища по конфигурации. Для postgres
// дополнительно применяются недостающие миграции схемы.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageBackend {
	case BackendMemory:
		logger.Info("using in-memory order repository")
		return &Dependencies{
			Repo:   memory.NewOrderRepository(),
			Logger: logger,
		}, nil

	case BackendPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("using postgres order repository")
		return &Dependencies{
			Repo:   postgres.NewOrderRepository(store),
			Store:  store,
			Logger: logger,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() error {
	if d == nil || d.Store == nil {
		return nil
	}
	return d.Store.Close()
}
