package session

import (
	"context"
	"log"
	"sync"
	"time"

	"jellywrapped/internal/models"
)

// TTL is how long a session stays valid after creation. Sessions are
// process-local; a restart discards them all and forces re-authentication.
const TTL = 24 * time.Hour

const sweepInterval = time.Hour

// Cache is an in-memory TTL store mapping a token's jti to the upstream
// credentials resolved at login. Expiry is evaluated lazily on read; the
// background sweeper bounds growth from sessions that are never read again.
type Cache struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	now      func() time.Time

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewCache() *Cache {
	return &Cache{
		sessions: make(map[string]models.Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// NewCacheWithClock injects the clock so expiry can be tested without sleeping.
func NewCacheWithClock(now func() time.Time) *Cache {
	c := NewCache()
	c.now = now
	return c
}

// Create stores the session under id, stamping the creation time.
// An existing entry for the same id is overwritten.
func (c *Cache) Create(id string, s models.Session) {
	s.CreatedAt = c.now().UTC()
	c.mu.Lock()
	c.sessions[id] = s
	c.mu.Unlock()
}

// Get returns the session for id unless it is absent or past TTL.
// An expired entry is deleted as a side effect of the read.
func (c *Cache) Get(id string) (models.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return models.Session{}, false
	}
	if c.now().UTC().Sub(s.CreatedAt) > TTL {
		delete(c.sessions, id)
		return models.Session{}, false
	}
	return s, true
}

// Delete removes the entry for id, reporting whether anything was removed.
func (c *Cache) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.sessions[id]
	delete(c.sessions, id)
	return ok
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// StartSweeper evicts expired sessions once per hour until Stop is called
// or the context is cancelled.
func (c *Cache) StartSweeper(ctx context.Context) {
	c.startOnce.Do(func() {
		ctx, c.cancel = context.WithCancel(ctx)
		go c.run(ctx)
	})
}

func (c *Cache) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

func (c *Cache) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := c.sweep(); evicted > 0 {
				log.Printf("session: swept %d expired sessions", evicted)
			}
		}
	}
}

func (c *Cache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	var evicted int
	for id, s := range c.sessions {
		if now.Sub(s.CreatedAt) > TTL {
			delete(c.sessions, id)
			evicted++
		}
	}
	return evicted
}
