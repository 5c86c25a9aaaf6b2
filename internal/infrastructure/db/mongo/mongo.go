package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config holds the connection settings for the account and job stores.
type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration
}

// Connect dials MongoDB and pings the primary before returning the client
// and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes of every collection the service owns.
func EnsureIndexes(ctx context.Context, employees, companies *AccountRepository, jobs *JobRepository) error {
	for name, fn := range map[string]func(context.Context) error{
		collectionEmployees: employees.EnsureIndexes,
		collectionCompanies: companies.EnsureIndexes,
		collectionJobs:      jobs.EnsureIndexes,
	} {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}
