package repository

import "context"

// StateRepository almacenamiento clave-valor durable para el estado persistido (carrito + perfil).
// Load devuelve (nil, nil) si la clave no existe.
type StateRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
