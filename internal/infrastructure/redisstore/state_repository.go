package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/shopfront/internal/domain/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo guarda el documento de estado como string bajo la clave indicada, sin expiración.
type StateRepo struct {
	client *redis.Client
}

func NewStateRepository(client *redis.Client) *StateRepo {
	return &StateRepo{client: client}
}

func (r *StateRepo) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (r *StateRepo) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
