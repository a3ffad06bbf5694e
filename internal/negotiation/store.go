// ABOUTME: Session store mapping session ids to live negotiation state
// ABOUTME: Per-session mutex serializes rounds; TTL sweeper bounds retention
package negotiation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/settleflow/settleflow/internal/models"
)

// ErrSessionNotFound indicates an unknown session id on continue
var ErrSessionNotFound = errors.New("session not found")

// StoreOptions bound session retention. Zero values take defaults.
type StoreOptions struct {
	TTL           time.Duration // idle lifetime, default 1h
	MaxSessions   int           // capacity bound, default 1024
	SweepInterval time.Duration // eviction cadence, default TTL/4
}

const (
	defaultTTL         = time.Hour
	defaultMaxSessions = 1024
)

// session pairs a negotiation state with its own mutex so concurrent rounds
// against one id serialize without blocking other sessions.
type session struct {
	mu         sync.Mutex
	state      models.NegotiationState
	lastAccess atomic.Int64 // unix nanos, readable without the mutex
}

func (s *session) touch() {
	s.lastAccess.Store(time.Now().UnixNano())
}

// Store maps opaque session ids to negotiation state. Safe for concurrent
// use; Close stops the background sweeper.
type Store struct {
	engine *Engine
	opts   StoreOptions

	mu       sync.RWMutex
	sessions map[string]*session

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store backed by the given engine
func NewStore(engine *Engine, opts StoreOptions) *Store {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = opts.TTL / 4
	}

	s := &Store{
		engine:   engine,
		opts:     opts,
		sessions: make(map[string]*session),
		stop:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Close stops the eviction sweeper. Idempotent.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Create starts a negotiation and stores its state under id, overwriting any
// prior session with the same id.
func (s *Store) Create(ctx context.Context, id string, facts models.CaseFacts, prob models.Probability) (*models.RoundResponse, error) {
	state, resp, err := s.engine.Start(ctx, facts, prob)
	if err != nil {
		return nil, err
	}

	sess := &session{state: state}
	sess.touch()

	s.mu.Lock()
	if len(s.sessions) >= s.opts.MaxSessions {
		s.evictOldestLocked()
	}
	s.sessions[id] = sess
	s.mu.Unlock()

	resp.SessionID = id
	return resp, nil
}

// Advance looks up the session and plays one round against it. Calls for the
// same id serialize on the session mutex so the round number advances exactly
// once per logical call; distinct ids never contend.
func (s *Store) Advance(ctx context.Context, id string, opponentOffer int64, message string) (*models.RoundResponse, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	state, resp, err := s.engine.Continue(ctx, sess.state, opponentOffer, message)
	if err != nil {
		return nil, err
	}
	sess.state = state
	sess.touch()

	resp.SessionID = id
	return resp, nil
}

// Get returns a snapshot of the current state for id
func (s *Store) Get(id string) (models.NegotiationState, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return models.NegotiationState{}, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, true
}

// Len reports the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// evictOldestLocked drops the least recently touched session. Caller holds mu.
func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest int64
	for id, sess := range s.sessions {
		at := sess.lastAccess.Load()
		if oldestID == "" || at < oldest {
			oldestID, oldest = id, at
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}

// sweep evicts sessions idle past the TTL until Close
func (s *Store) sweep() {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.opts.TTL).UnixNano()
			s.mu.Lock()
			for id, sess := range s.sessions {
				if sess.lastAccess.Load() < cutoff {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
