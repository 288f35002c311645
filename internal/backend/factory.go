package backend

import (
	"context"
	"fmt"
	"log/slog"

	"moneyrec/internal/amqp"
	"moneyrec/internal/config"
	"moneyrec/internal/ledger/memory"
	"moneyrec/internal/services"
	"moneyrec/internal/storage"
)

// Create builds the ledger store selected by the configuration, seeds
// its defaults, and wires the optional AMQP change publisher. A broker
// that is down at startup degrades to no publishing rather than
// failing the whole process.
func Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	var result *Result
	switch backendType {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		result = &Result{Store: repo, Cleanup: repo.Close}
		slog.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	case MemoryBackend:
		result = &Result{Store: memory.New(), Cleanup: func() error { return nil }}
		slog.Info("Initialized in-memory backend")
	}

	if err := result.Store.EnsureDefaults(ctx); err != nil {
		result.Cleanup()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			result.Publisher = client
			storeCleanup := result.Cleanup
			result.Cleanup = func() error {
				client.Close()
				return storeCleanup()
			}
			slog.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	return result, nil
}

var _ services.ChangePublisher = (*amqp.Client)(nil)
