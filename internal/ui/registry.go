package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/constants"
	"ligapro-predictor/internal/selection"
	"ligapro-predictor/internal/teams"

	"github.com/rs/zerolog"
)

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry hands out one Controller per session id. Sessions idle longer than
// idleTTL are swept, and the oldest is evicted once maxSessions is reached.
type Registry struct {
	dir         *teams.Directory
	predictor   Predictor
	home        string
	away        string
	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time
	logger      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry(cfg *config.Config, dir *teams.Directory, predictor Predictor, logger zerolog.Logger) (*Registry, error) {
	// fail at startup rather than on the first page view
	if _, err := selection.New(dir, cfg.DefaultHome, cfg.DefaultAway); err != nil {
		return nil, fmt.Errorf("invalid default selection: %w", err)
	}
	return &Registry{
		dir:         dir,
		predictor:   predictor,
		home:        cfg.DefaultHome,
		away:        cfg.DefaultAway,
		idleTTL:     constants.SessionIdleTTL,
		maxSessions: constants.MaxSessions,
		now:         time.Now,
		logger:      logger,
		sessions:    make(map[string]*session),
	}, nil
}

// Get returns the session's controller, creating it if needed.
func (r *Registry) Get(sessionID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = now
		return s.controller
	}

	if len(r.sessions) >= r.maxSessions {
		r.evictOldestLocked()
	}

	c := r.newController(sessionID)
	r.sessions[sessionID] = &session{controller: c, lastSeen: now}
	r.logger.Debug().Str("session_id", sessionID).Int("sessions", len(r.sessions)).Msg("session created")
	return c
}

// Lookup returns the session's controller without creating one.
func (r *Registry) Lookup(sessionID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	s.lastSeen = r.now()
	return s.controller, true
}

// Preview builds a controller in the default state that is not registered.
func (r *Registry) Preview(sessionID string) *Controller {
	return r.newController(sessionID)
}

func (r *Registry) newController(sessionID string) *Controller {
	// defaults were validated in NewRegistry
	sel, _ := selection.New(r.dir, r.home, r.away)
	return NewController(sessionID, r.dir, sel, r.predictor, r.logger)
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range r.sessions {
		if oldestID == "" || s.lastSeen.Before(oldest) {
			oldestID, oldest = id, s.lastSeen
		}
	}
	delete(r.sessions, oldestID)
	r.logger.Debug().Str("session_id", oldestID).Msg("session evicted at capacity")
}

// Sweep drops sessions idle longer than the TTL and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info().Int("evicted", n).Int("sessions", r.Len()).Msg("idle sessions swept")
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
