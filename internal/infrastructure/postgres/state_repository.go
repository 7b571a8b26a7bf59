package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/shopfront/internal/domain/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

const createStateTable = `
	CREATE TABLE IF NOT EXISTS app_state (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// StateRepo implementación del puerto StateRepository sobre PostgreSQL (tabla app_state).
type StateRepo struct {
	pool *pgxpool.Pool
}

// NewStateRepository construye el adaptador y crea la tabla si no existe.
func NewStateRepository(ctx context.Context, pool *pgxpool.Pool) (*StateRepo, error) {
	if _, err := pool.Exec(ctx, createStateTable); err != nil {
		return nil, fmt.Errorf("create app_state: %w", err)
	}
	return &StateRepo{pool: pool}, nil
}

// Load devuelve el documento guardado bajo key, o nil si no existe.
func (r *StateRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get app_state: %w", err)
	}
	return value, nil
}

// Save inserta o reemplaza el documento.
func (r *StateRepo) Save(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("upsert app_state: %w", err)
	}
	return nil
}
