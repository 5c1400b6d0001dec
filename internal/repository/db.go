package repository

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	URI         string
	Database    string
	DialTimeout time.Duration
}

// Open connects to MongoDB and returns the client plus the database handle.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	logger.Info("connecting to mongodb", "uri", cfg.URI, "database", cfg.Database)

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("failed to ping mongodb", "error", err)
		return nil, nil, err
	}

	logger.Info("successfully connected to mongodb")
	return client, client.Database(cfg.Database), nil
}

// Close disconnects the client gracefully.
func Close(ctx context.Context, client *mongo.Client, logger *slog.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("closing mongodb connection")
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("failed to disconnect mongodb client", "error", err)
	}
}

// HealthCheck pings the deployment to catch connection issues early.
func HealthCheck(ctx context.Context, client *mongo.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return client.Ping(ctx, nil)
}
