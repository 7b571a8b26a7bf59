package entity

import "time"

// Orígenes válidos para el avatar.
const (
	SourceCamera  = "camera"
	SourceGallery = "gallery"
)

// MaxProgress progreso al que se confirma la subida.
const MaxProgress = 100

// Profile datos editables del usuario.
type Profile struct {
	Name   string
	Email  string
	Avatar string // vacío = sin imagen
}

// Upload estado de la máquina de subida del avatar: Idle -> Uploading(0..100) -> Idle.
type Upload struct {
	ID            string
	Source        string
	PendingAvatar string
	Uploading     bool
	Progress      int
	StartedAt     time.Time
}

// ProfileState snapshot completo del perfil.
type ProfileState struct {
	Profile     Profile
	Upload      Upload
	FieldErrors map[string]string
}
