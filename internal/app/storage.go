package app

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"ruralride/internal/config"
	"ruralride/internal/repository"
	"ruralride/internal/repository/memory"
	mongorepo "ruralride/internal/repository/mongo"
	"ruralride/internal/repository/postgres"
)

// NewStorage opens the configured storage backend and prepares its schema or indexes.
// Failure to reach a durable backend is returned, never silently replaced by memory.
func NewStorage(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, log logrus.FieldLogger) (*repository.Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		client, err := NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.WithField("database", cfg.Mongo.Database).Info("connected to MongoDB")
		return mongorepo.NewStorage(client, db), nil

	case config.StoragePostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.WithField("database", cfg.Database.DBName).Info("connected to PostgreSQL")
		return postgres.NewStorage(db), nil

	case config.StorageMemory:
		log.Warn("using in-memory storage; bookings are lost on restart")
		return memory.NewStorage(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
