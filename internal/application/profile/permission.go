package profile

import (
	"context"
	"strings"
)

// PermissionStatus resultado de consultar el permiso de un origen de imagen.
type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
	// PermissionBlocked el sistema ya no vuelve a preguntar; solo se habilita desde los ajustes.
	PermissionBlocked PermissionStatus = "blocked"
)

// PermissionGate puerto hacia los permisos del dispositivo (cámara / galería).
type PermissionGate interface {
	Check(ctx context.Context, source string) (PermissionStatus, error)
	Request(ctx context.Context, source string) (PermissionStatus, error)
}

// StaticGate permisos fijos por origen, tomados de la configuración. Request devuelve lo mismo que Check.
type StaticGate struct {
	statuses map[string]PermissionStatus
}

// NewStaticGate construye el gate; valores desconocidos se tratan como denied.
func NewStaticGate(statuses map[string]string) *StaticGate {
	m := make(map[string]PermissionStatus, len(statuses))
	for source, raw := range statuses {
		m[source] = ParsePermission(raw)
	}
	return &StaticGate{statuses: m}
}

// ParsePermission normaliza un estado escrito en texto.
func ParsePermission(raw string) PermissionStatus {
	switch PermissionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionBlocked:
		return PermissionBlocked
	default:
		return PermissionDenied
	}
}

func (g *StaticGate) Check(_ context.Context, source string) (PermissionStatus, error) {
	if st, ok := g.statuses[source]; ok {
		return st, nil
	}
	return PermissionDenied, nil
}

func (g *StaticGate) Request(ctx context.Context, source string) (PermissionStatus, error) {
	return g.Check(ctx, source)
}
