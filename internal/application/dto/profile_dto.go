package dto

// SaveProfileRequest entrada para guardar el perfil.
type SaveProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PickAvatarRequest imagen elegida en cámara o galería.
type PickAvatarRequest struct {
	Source string `json:"source"` // camera | gallery
	URI    string `json:"uri"`
}

// UploadResponse estado de la subida del avatar.
type UploadResponse struct {
	ID            string `json:"id,omitempty"`
	Source        string `json:"source,omitempty"`
	PendingAvatar string `json:"pending_avatar,omitempty"`
	Uploading     bool   `json:"uploading"`
	Progress      int    `json:"progress"`
}

// ProfileResponse perfil con estado de subida y errores por campo.
type ProfileResponse struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Avatar      *string           `json:"avatar"`
	Upload      UploadResponse    `json:"upload"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// UpdateProfileDraftRequest edición parcial sin validar (campos omitidos no cambian).
type UpdateProfileDraftRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
