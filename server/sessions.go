package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/npillmayer/uxbuilder/session"
	"github.com/npillmayer/uxbuilder/store"
	"github.com/robfig/cron/v3"
)

// ErrUnknownSession is returned for session ids not in the registry.
var ErrUnknownSession = errors.New("unknown session")

// ErrTooManySessions is returned if the session limit is reached.
var ErrTooManySessions = errors.New("too many sessions")

// Opener opens the document store for a new session.
type Opener func(ctx context.Context) (store.Store, error)

// Sessions is the registry of live editing sessions. It is safe for
// concurrent use.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	open     Opener
	opts     session.Options
	max      int
	idle     time.Duration
}

// NewSessions creates a session registry. A max of 0 means no limit, an
// idle timeout of 0 disables reaping.
func NewSessions(open Opener, opts session.Options, max int, idle time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session.Session),
		open:     open,
		opts:     opts,
		max:      max,
		idle:     idle,
	}
}

// Create opens a store and starts a new session on it. The document is not
// loaded yet.
func (ss *Sessions) Create(ctx context.Context) (*session.Session, error) {
	ss.mu.RLock()
	full := ss.max > 0 && len(ss.sessions) >= ss.max
	ss.mu.RUnlock()
	if full {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, ss.max)
	}
	st, err := ss.open(ctx)
	if err != nil {
		return nil, err
	}
	s := session.New(st, ss.opts)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.max > 0 && len(ss.sessions) >= ss.max {
		s.Close()
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, ss.max)
	}
	ss.sessions[s.ID()] = s
	return s, nil
}

// Get looks up a session.
func (ss *Sessions) Get(id string) (*session.Session, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s, nil
}

// Remove closes a session and drops it from the registry.
func (ss *Sessions) Remove(id string) error {
	ss.mu.Lock()
	s, ok := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	s.Close()
	return nil
}

// IDs returns the ids of all live sessions, sorted.
func (ss *Sessions) IDs() []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	ids := make([]string, 0, len(ss.sessions))
	for id := range ss.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Reap closes every session which has been idle since before now minus the
// idle timeout. It returns the number of sessions closed.
func (ss *Sessions) Reap(now time.Time) int {
	if ss.idle <= 0 {
		return 0
	}
	var stale []*session.Session
	ss.mu.Lock()
	for id, s := range ss.sessions {
		if now.Sub(s.LastActive()) > ss.idle {
			stale = append(stale, s)
			delete(ss.sessions, id)
		}
	}
	ss.mu.Unlock()
	for _, s := range stale {
		tracer().Infof("closing idle session %s", s.ID())
		s.Close()
	}
	return len(stale)
}

// StartReaper runs Reap on a cron schedule. Stop the returned cron to end
// reaping.
func (ss *Sessions) StartReaper(schedule string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if n := ss.Reap(time.Now()); n > 0 {
			tracer().Infof("reaper closed %d idle sessions, %d left", n, ss.Len())
		}
	}); err != nil {
		return nil, fmt.Errorf("reaper schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}

// CloseAll closes every session.
func (ss *Sessions) CloseAll() {
	ss.mu.Lock()
	all := ss.sessions
	ss.sessions = make(map[string]*session.Session)
	ss.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
