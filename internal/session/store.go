package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmitchellscott/ditherlab/internal/imageprocessing"
	"github.com/rmitchellscott/ditherlab/internal/logging"
)

// ErrNotFound is returned for unknown or expired session IDs
var ErrNotFound = errors.New("session not found")

// Session pairs an uploaded image with its pipeline coordinator
type Session struct {
	ID          uuid.UUID
	Filename    string
	Format      string
	CreatedAt   time.Time
	Coordinator *imageprocessing.Coordinator

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns when the session was last accessed
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store keeps sessions in memory and evicts those idle for longer than ttl
type Store struct {
	ttl           time.Duration
	previewWidth  int
	previewHeight int
	now           func() time.Time

	mutex    sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty store
func NewStore(ttl time.Duration, previewWidth, previewHeight int) *Store {
	return &Store{
		ttl:           ttl,
		previewWidth:  previewWidth,
		previewHeight: previewHeight,
		now:           time.Now,
		sessions:      make(map[uuid.UUID]*Session),
	}
}

// Create loads src into a new session
func (s *Store) Create(src *imageprocessing.Raster, filename, format string) (*Session, error) {
	coordinator := imageprocessing.NewCoordinator(s.previewWidth, s.previewHeight)
	if err := coordinator.Load(src); err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:          uuid.New(),
		Filename:    filename,
		Format:      format,
		CreatedAt:   now,
		Coordinator: coordinator,
		lastSeen:    now,
	}

	s.mutex.Lock()
	s.sessions[sess.ID] = sess
	s.mutex.Unlock()

	logging.InfoWithComponent(logging.ComponentSessions, "Session created",
		"session_id", sess.ID, "width", src.Width, "height", src.Height, "format", format)
	return sess, nil
}

// Get returns a live session and refreshes its idle timer
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mutex.RLock()
	sess, ok := s.sessions[id]
	s.mutex.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	if s.expired(sess, now) {
		s.Delete(id)
		return nil, ErrNotFound
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id uuid.UUID) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of sessions held, including expired ones not yet evicted
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen()) >= s.ttl
}

// Cleanup evicts idle sessions and returns how many were removed
func (s *Store) Cleanup() int {
	now := s.now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor evicts idle sessions every interval until ctx is cancelled
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Cleanup(); removed > 0 {
				logging.DebugWithComponent(logging.ComponentSessions, "Evicted idle sessions", "count", removed)
			}
		}
	}
}
