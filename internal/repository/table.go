package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrTableNotFound = errors.New("table not found")

// TableRepository keeps raw table blobs, byte for byte what a table file holds.
type TableRepository interface {
	Put(ctx context.Context, name string, blob []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

type dbTable struct {
	client *redis.Client
}

func NewTableRepository(client *redis.Client) TableRepository {
	return &dbTable{
		client: client,
	}
}

func (that *dbTable) Put(ctx context.Context, name string, blob []byte) error {
	if err := that.client.Set(ctx, tableKey(name), blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to set table: %w", err)
	}

	return nil
}

func (that *dbTable) Get(ctx context.Context, name string) ([]byte, error) {
	blob, err := that.client.Get(ctx, tableKey(name)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}

	return blob, nil
}

func tableKey(name string) string {
	return "table:" + name
}
