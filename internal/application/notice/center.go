package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/shopfront/internal/domain/entity"
)

// Center avisos transitorios con descarte automático. Cada aviso tiene su timer; Close los detiene todos.
type Center struct {
	ttl time.Duration

	mu       sync.Mutex
	notices  []entity.Notice
	timers   map[string]*time.Timer
	closed   bool
	onChange func()
}

// NewCenter construye el centro de avisos con el TTL indicado.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &Center{ttl: ttl, timers: make(map[string]*time.Timer)}
}

// OnChange registra la función invocada (sin lock) al mostrar o descartar un aviso.
func (c *Center) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Show publica un aviso y programa su descarte. Tras Close no publica nada.
func (c *Center) Show(kind, message string) entity.Notice {
	n := entity.Notice{ID: uuid.New().String(), Kind: kind, Message: message, CreatedAt: time.Now()}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.notices = append(c.notices, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return n
}

// Dismiss descarta un aviso antes de tiempo. Devuelve false si ya no estaba.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	t, ok := c.timers[id]
	if !ok {
		c.mu.Unlock()
		return false
	}
	t.Stop()
	delete(c.timers, id)
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i:i], c.notices[i+1:]...)
			break
		}
	}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Active avisos visibles en orden de publicación.
func (c *Center) Active() []entity.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Notice(nil), c.notices...)
}

// Close detiene todos los timers pendientes y vacía los avisos.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.notices = nil
	c.closed = true
}
