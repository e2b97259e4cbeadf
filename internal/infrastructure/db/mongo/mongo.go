package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxPoolSize = 20
	appName            = "identity-gateway"
)

// Config describes where the registration journal lives.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	Timeout     time.Duration
}

// Store owns the journal database handle for the life of the process.
type Store struct {
	Client  *mongo.Client
	DB      *mongo.Database
	timeout time.Duration
}

// Connect opens the client, pings the server and selects cfg.Database. The
// journal is write-mostly, so the pool is kept small.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	poolSize := cfg.MaxPoolSize
	if poolSize == 0 {
		poolSize = defaultMaxPoolSize
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetMaxPoolSize(poolSize).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("journal store connect: %w", err)
	}

	store := &Store{Client: client, DB: client.Database(cfg.Database), timeout: timeout}
	if err := store.Ping(connectCtx); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, err
	}
	return store, nil
}

// Ping is the readiness probe for the journal store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("journal store ping: %w", err)
	}
	return nil
}

// Close disconnects, waiting at most the connect timeout for in-flight work.
func (s *Store) Close() error {
	timeout := s.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Client.Disconnect(ctx)
}
