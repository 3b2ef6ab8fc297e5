// SPDX-License-Identifier: MIT

// Package session holds the process-wide session store and the coordinator
// that drives the recommendation pipeline and applies user selections.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/log"
	"github.com/tripstep/tripstep/internal/metrics"
)

// Store is the concurrent session map. Reads and writes of distinct sessions
// never contend; operations on one session are serialized by a per-entry
// lock, which makes each session single-writer.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	mu   sync.Mutex
	sess *domain.Session
}

// NewStore builds a store with the given idle TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put registers a session.
func (st *Store) Put(s *domain.Session) {
	st.mu.Lock()
	st.entries[s.ID] = &entry{sess: s}
	n := len(st.entries)
	st.mu.Unlock()
	metrics.SetActiveSessions(n)
}

// Update runs fn over the session under its per-key lock and bumps
// LastActive on success. Expired sessions are removed and reported as
// RSessionExpired.
func (st *Store) Update(id string, fn func(*domain.Session) error) error {
	return st.with(id, true, fn)
}

// View runs fn over the session under its per-key lock without touching
// LastActive.
func (st *Store) View(id string, fn func(*domain.Session) error) error {
	return st.with(id, false, fn)
}

func (st *Store) with(id string, bump bool, fn func(*domain.Session) error) error {
	st.mu.RLock()
	e, ok := st.entries[id]
	st.mu.RUnlock()
	if !ok {
		return domain.NewReasonError(domain.RSessionNotFound, "session "+id, nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := st.now()
	if now.Sub(e.sess.LastActive) > st.ttl {
		st.remove(id)
		return domain.NewReasonError(domain.RSessionExpired, "session "+id, nil)
	}
	if err := fn(e.sess); err != nil {
		return err
	}
	if bump {
		e.sess.LastActive = now
	}
	return nil
}

// Delete removes a session. Idempotent.
func (st *Store) Delete(id string) {
	st.remove(id)
}

func (st *Store) remove(id string) {
	st.mu.Lock()
	delete(st.entries, id)
	n := len(st.entries)
	st.mu.Unlock()
	metrics.SetActiveSessions(n)
}

// Len reports the current session count.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.entries)
}

// GCExpired removes every session idle past the TTL and returns how many
// were dropped. LastActive is only ever touched under the entry lock, so
// the sweep takes it too before reading.
func (st *Store) GCExpired() int {
	now := st.now()

	st.mu.RLock()
	snapshot := make(map[string]*entry, len(st.entries))
	for id, e := range st.entries {
		snapshot[id] = e
	}
	st.mu.RUnlock()

	var expired []string
	for id, e := range snapshot {
		e.mu.Lock()
		stale := now.Sub(e.sess.LastActive) > st.ttl
		e.mu.Unlock()
		if stale {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		st.remove(id)
	}
	metrics.RecordSessionsExpired(len(expired))
	return len(expired)
}

// RunSweeper blocks, removing expired sessions every interval until the
// context is cancelled. Run it in its own goroutine.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	logger := log.WithComponent("session-sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.GCExpired(); n > 0 {
				logger.Info().Int("expired", n).Msg("sessions swept")
			}
		}
	}
}
