// apps/go-server/internal/store/memory.go
//
// In-memory session store for live FreeCell games.
// Game state is never written anywhere else: a process restart drops every
// session.
//
// Characteristics:
//   - Stores *Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session carries its own mutex; handlers hold it around a move so
//     a single Game is never touched by two requests at once.
//   - ErrNotFound is returned for missing IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
)

// ErrNotFound is returned when no session has the requested ID.
var ErrNotFound = errors.New("session not found")

// Mode distinguishes free play from the daily deal.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// Session is one live game plus the bookkeeping the HTTP layer needs.
type Session struct {
	ID        string
	Game      *freecell.Game
	OwnerID   string // user id or anonymous id
	Mode      Mode
	Date      string // daily deal date key, empty for normal games
	StartedAt time.Time

	mu sync.Mutex
}

// NewSession wraps g under a fresh UUID.
func NewSession(g *freecell.Game, owner string, mode Mode) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Game:      g,
		OwnerID:   owner,
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
}

// Lock serializes access to the session's game.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("store: session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
