package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// HubOptions configures a Hub.
type HubOptions struct {
	Settings    snake.Settings
	Seed        int64         // Non-zero makes session seeds reproducible
	IdleTimeout time.Duration // 0 disables reaping

	// BestScore seeds the HUD best score of new sessions.
	BestScore func() int

	// OnGameOver is called from the session goroutine when a game ends.
	OnGameOver func(id string, r Result)

	Logger *log.Logger
}

// Hub tracks the sessions of a multi-client host by ID.
type Hub struct {
	opts   HubOptions
	logger *log.Logger

	mu       sync.Mutex
	settings snake.Settings
	sessions map[string]*Session
	created  int64
	closed   bool
}

// NewHub creates an empty hub.
func NewHub(opts HubOptions) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		opts:     opts,
		logger:   logger,
		settings: opts.Settings,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session and returns its ID.
// It fails with ErrClosed once CloseAll has been called.
func (h *Hub) Create(ctx context.Context) (string, *Session, error) {
	id := uuid.NewString()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return "", nil, ErrClosed
	}
	settings := h.settings
	h.created++
	var seed int64
	if h.opts.Seed != 0 {
		seed = h.opts.Seed + h.created
	}
	h.mu.Unlock()

	best := 0
	if h.opts.BestScore != nil {
		best = h.opts.BestScore()
	}

	var onGameOver func(Result)
	if h.opts.OnGameOver != nil {
		onGameOver = func(r Result) { h.opts.OnGameOver(id, r) }
	}

	// Sessions outlive the request that created them.
	s := Start(context.WithoutCancel(ctx), Options{
		Settings:   settings,
		Seed:       seed,
		Best:       best,
		OnGameOver: onGameOver,
		Logger:     h.logger.With("session", id),
	})

	// CloseAll may have run while the session was starting.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.Close()
		return "", nil, ErrClosed
	}
	h.sessions[id] = s
	h.mu.Unlock()

	h.logger.Info("Session created", "session", id)
	return id, s, nil
}

// Get returns the session with the given ID.
func (h *Hub) Get(id string) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove closes and forgets a session.
func (h *Hub) Remove(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.Close()
	h.logger.Info("Session closed", "session", id)
	return nil
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// SetSettings changes the settings used for sessions created from now on.
// Running sessions keep their settings.
func (h *Hub) SetSettings(s snake.Settings) {
	h.mu.Lock()
	h.settings = s
	h.mu.Unlock()
}

// Settings returns the settings new sessions are created with.
func (h *Hub) Settings() snake.Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

// Reap closes sessions idle since before now minus the idle timeout and
// returns how many were removed.
func (h *Hub) Reap(now time.Time) int {
	if h.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-h.opts.IdleTimeout)

	h.mu.Lock()
	var stale []*Session
	for id, s := range h.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(h.sessions, id)
			h.logger.Info("Session idle, closing", "session", id)
		}
	}
	h.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Run reaps idle sessions until ctx is cancelled, then closes all sessions.
func (h *Hub) Run(ctx context.Context) {
	defer h.CloseAll()
	if h.opts.IdleTimeout <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(max(h.opts.IdleTimeout/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.Reap(now)
		}
	}
}

// CloseAll closes every session. Later calls to Create fail.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	h.closed = true
	all := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
