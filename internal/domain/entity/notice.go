package entity

import "time"

// Tipos de aviso.
const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

// Notice aviso transitorio (snackbar) que se descarta solo tras un TTL.
type Notice struct {
	ID        string
	Kind      string
	Message   string
	CreatedAt time.Time
}
