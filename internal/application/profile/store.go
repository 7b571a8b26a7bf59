package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/shopfront/internal/domain"
	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// Patch edición parcial del perfil (nil = sin cambio).
type Patch struct {
	Name  *string
	Email *string
}

// Store perfil del usuario y máquina de estados de la subida del avatar.
//
// Idle -> Uploading(0..100) -> Idle(avatar confirmado). El progreso avanza 1 por tick; iniciar una
// subida nueva cancela la anterior y espera a que su goroutine termine antes de arrancar la siguiente.
type Store struct {
	gate PermissionGate
	tick time.Duration
	log  zerolog.Logger

	startMu sync.Mutex // serializa StartUpload y Close

	mu         sync.Mutex
	profile    entity.Profile
	upload     entity.Upload
	fieldErrs  map[string]string
	seq        uint64
	cancel     context.CancelFunc
	done       chan struct{}
	closed     bool
	onChange   func()
	onComplete func(entity.Upload)
}

// NewStore construye el store. tick es el intervalo entre incrementos de progreso.
func NewStore(gate PermissionGate, tick time.Duration, log zerolog.Logger) *Store {
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	return &Store{gate: gate, tick: tick, log: log}
}

// OnChange registra la función invocada (sin lock) tras cada cambio, incluidos los ticks de progreso.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// OnComplete registra la función invocada una sola vez por subida completada.
func (s *Store) OnComplete(fn func(entity.Upload)) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// Snapshot copia del estado del perfil.
func (s *Store) Snapshot() entity.ProfileState {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := make(map[string]string, len(s.fieldErrs))
	for k, v := range s.fieldErrs {
		errs[k] = v
	}
	return entity.ProfileState{Profile: s.profile, Upload: s.upload, FieldErrors: errs}
}

// UpdateDraft aplica ediciones sin validar; la validación solo bloquea Save.
func (s *Store) UpdateDraft(p Patch) {
	s.mu.Lock()
	if p.Name != nil {
		s.profile.Name = *p.Name
	}
	if p.Email != nil {
		s.profile.Email = *p.Email
	}
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// Save valida y confirma nombre y email. Con errores los guarda por campo y devuelve *domain.ValidationError
// sin tocar el perfil; con éxito limpia los errores y devuelve nil (confirmación).
func (s *Store) Save(name, email string) error {
	errs := Validate(name, email)

	s.mu.Lock()
	s.fieldErrs = errs
	if len(errs) == 0 {
		s.profile.Name = strings.TrimSpace(name)
		s.profile.Email = strings.TrimSpace(email)
	}
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)

	if len(errs) > 0 {
		return &domain.ValidationError{Fields: errs}
	}
	return nil
}

// Restore rehidrata el perfil persistido; el estado de subida nunca se persiste.
func (s *Store) Restore(p entity.Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}

// PickAvatar verifica el permiso del origen y arranca la subida de la imagen elegida.
func (s *Store) PickAvatar(ctx context.Context, source, uri string) (entity.Upload, error) {
	if source != entity.SourceCamera && source != entity.SourceGallery {
		return entity.Upload{}, fmt.Errorf("origen %q: %w", source, domain.ErrInvalidInput)
	}
	if strings.TrimSpace(uri) == "" {
		return entity.Upload{}, fmt.Errorf("uri vacía: %w", domain.ErrInvalidInput)
	}
	if err := s.requirePermission(ctx, source); err != nil {
		return entity.Upload{}, err
	}
	return s.StartUpload(source, uri)
}

func (s *Store) requirePermission(ctx context.Context, source string) error {
	if s.gate == nil {
		return nil
	}
	status, err := s.gate.Check(ctx, source)
	if err != nil {
		return fmt.Errorf("consultar permiso %s: %w", source, err)
	}
	if status == PermissionDenied {
		if status, err = s.gate.Request(ctx, source); err != nil {
			return fmt.Errorf("solicitar permiso %s: %w", source, err)
		}
	}
	switch status {
	case PermissionGranted:
		return nil
	case PermissionBlocked:
		return &domain.PermissionDeniedError{Source: source, OpenSettings: true}
	default:
		return &domain.PermissionDeniedError{Source: source}
	}
}

// StartUpload cancela la subida en curso (si hay) y arranca otra con progreso 0.
func (s *Store) StartUpload(source, uri string) (entity.Upload, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.stopUpload()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return entity.Upload{}, domain.ErrUploadCancelled
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.seq++
	seq := s.seq
	s.cancel, s.done = cancel, done
	s.upload = entity.Upload{
		ID:            uuid.New().String(),
		Source:        source,
		PendingAvatar: uri,
		Uploading:     true,
		Progress:      0,
		StartedAt:     time.Now(),
	}
	up := s.upload
	fn := s.onChange
	s.mu.Unlock()

	s.log.Info().Str("upload_id", up.ID).Str("source", source).Msg("subida de avatar iniciada")
	go s.run(ctx, seq, done)
	notify(fn)
	return up, nil
}

// Close cancela la subida en curso; después de Close el store no vuelve a mutar por timers.
func (s *Store) Close() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	s.stopUpload()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// stopUpload invalida la subida vigente y espera a que su goroutine salga. Requiere startMu.
func (s *Store) stopUpload() {
	s.mu.Lock()
	s.seq++
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	interrupted := s.upload.Uploading
	s.upload.Uploading = false
	id := s.upload.ID
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	if interrupted {
		s.log.Debug().Str("upload_id", id).Msg("subida de avatar cancelada")
	}
}

func (s *Store) run(ctx context.Context, seq uint64, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			live, finished, up, onChange, onComplete := s.advance(seq)
			if !live {
				return
			}
			notify(onChange)
			if finished {
				s.log.Info().Str("upload_id", up.ID).Msg("subida de avatar completada")
				if onComplete != nil {
					onComplete(up)
				}
				return
			}
		}
	}
}

// advance suma 1 al progreso si la subida seq sigue vigente; al llegar a 100 confirma el avatar.
func (s *Store) advance(seq uint64) (live, finished bool, up entity.Upload, onChange func(), onComplete func(entity.Upload)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || !s.upload.Uploading {
		return false, false, entity.Upload{}, nil, nil
	}
	s.upload.Progress++
	if s.upload.Progress >= entity.MaxProgress {
		s.upload.Progress = entity.MaxProgress
		s.upload.Uploading = false
		s.profile.Avatar = s.upload.PendingAvatar
		s.upload.PendingAvatar = ""
		finished = true
	}
	return true, finished, s.upload, s.onChange, s.onComplete
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
