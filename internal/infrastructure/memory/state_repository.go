package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/shopfront/internal/domain/repository"
)

// StateRepository almacenamiento en proceso del documento de estado. Útil en tests y con PERSIST_DRIVER=memory.
type StateRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ repository.StateRepository = (*StateRepository)(nil)

func NewStateRepository() *StateRepository {
	return &StateRepository{data: make(map[string][]byte)}
}

func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (r *StateRepository) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[key] = append([]byte(nil), value...)
	r.mu.Unlock()
	return nil
}
