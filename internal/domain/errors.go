package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidQuantity  = errors.New("la cantidad debe ser mayor o igual a 1")
	ErrPermissionDenied = errors.New("permiso denegado")
	ErrUploadCancelled  = errors.New("subida cancelada")
)

// FetchError falla al obtener una página del catálogo. Se recupera con un reintento y no borra datos.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("no se pudo cargar la página %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError errores por campo; solo bloquea la confirmación de guardado.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// PermissionDeniedError acceso al selector de imágenes rechazado.
// OpenSettings indica que el permiso quedó bloqueado y solo se habilita desde los ajustes del sistema.
type PermissionDeniedError struct {
	Source       string
	OpenSettings bool
}

func (e *PermissionDeniedError) Error() string {
	if e.OpenSettings {
		return fmt.Sprintf("permiso %s bloqueado: habilítelo en los ajustes", e.Source)
	}
	return fmt.Sprintf("permiso %s denegado", e.Source)
}

func (e *PermissionDeniedError) Is(target error) bool { return target == ErrPermissionDenied }
