package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/elmorders/internal/health"
	"github.com/vladislavdragonenkov/elmorders/internal/storage/memory"
	"github.com/vladislavdragonenkov/elmorders/internal/storage/postgres"
)

// runtimeStorage держит репозитории и менеджер транзакций выбранного бэкенда.
type runtimeStorage struct {
	orders         domain.OrderRepository
	users          domain.UserRepository
	tx             domain.Transactor
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func (s *runtimeStorage) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeStorage, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		logger.Info("storage driver: memory")
		users := memory.NewUserRepository()
		if err := seedUsers(ctx, users, cfg.MemorySeedUsers, seedPasswordCost, logger); err != nil {
			return nil, err
		}
		return &runtimeStorage{
			orders: memory.NewOrderRepository(),
			users:  users,
			tx:     memory.NewTransactor(),
			storageChecker: healthcheck.CheckerFunc(func(context.Context) error {
				return nil
			}),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres dsn is required for storage driver %q", StorageDriverPostgres)
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("migrate postgres schema: %w", err)
			}
		}

		logger.WithField("auto_migrate", cfg.PostgresAutoMigrate).Info("storage driver: postgres")
		return &runtimeStorage{
			orders:         postgres.NewOrderRepository(store),
			users:          postgres.NewUserRepository(store),
			tx:             store,
			storageChecker: healthcheck.PingChecker(store),
			closeFn:        store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.StorageDriver)
	}
}
