package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kasereka12/BudgetTracer/internal/amqp"
	"github.com/kasereka12/BudgetTracer/internal/services"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		client store.Client
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		client, err = store.OpenSQLite(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case PostgresBackend:
		client, err = store.OpenPostgres(config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
	case MemoryBackend:
		client = store.NewMemory()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	publisher := f.connectAMQP(config)

	result := &BackendResult{
		Store:     client,
		Publisher: publisher,
		Cleanup: func() error {
			var errs []error
			if publisher != nil {
				errs = append(errs, publisher.Close())
			}
			errs = append(errs, client.Close())
			return errors.Join(errs...)
		},
	}
	// A nil *amqp.Client must not reach services as a non-nil interface.
	if publisher != nil {
		result.Services = services.New(client, publisher)
	} else {
		result.Services = services.New(client, nil)
	}

	f.logger.Info("Backend ready", "type", config.Type, "amqp_enabled", publisher != nil)
	return result, nil
}

// connectAMQP returns nil when events are disabled or the broker is
// unreachable; the API keeps working without them.
func (f *DefaultFactory) connectAMQP(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without record events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
