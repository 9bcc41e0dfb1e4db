// Package state holds the process-local, volatile bookkeeping shared between
// the bot handlers and the health surface: per-user sessions, the verified
// set, the broadcast directory, aggregate counters, and dependency readiness
// flags.
//
// Everything here is lost on restart by design: users re-verify and the
// broadcast directory refills as they interact again. Handlers run on
// concurrent goroutines, so the maps are mutex-guarded and the counters and
// flags are atomic; the health surface only ever reads the atomic fields.
package state

import (
	"sync"
	"sync/atomic"
	"time"
)

// MessageRef identifies a message previously sent to a chat so it can be
// deleted later (best effort).
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// session is the per-user volatile record, overwritten on each action.
type session struct {
	lastSeen    time.Time
	lastResults MessageRef
	hasResults  bool
}

// State is the in-memory bookkeeping owned by the bot process. The zero value
// is not usable; construct with New.
type State struct {
	mu        sync.RWMutex
	sessions  map[int64]*session
	verified  map[int64]struct{}
	directory map[int64]struct{}

	startedAt time.Time

	searches atomic.Int64
	updates  atomic.Int64

	dbReady     atomic.Bool
	searchReady atomic.Bool
}

// New returns an empty State with the start time stamped.
func New() *State {
	return &State{
		sessions:  make(map[int64]*session),
		verified:  make(map[int64]struct{}),
		directory: make(map[int64]struct{}),
		startedAt: time.Now().UTC(),
	}
}

// Touch records an interaction from userID: the user enters the broadcast
// directory and their session timestamp is refreshed.
func (s *State) Touch(userID int64) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory[userID] = struct{}{}
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{}
		s.sessions[userID] = sess
	}
	sess.lastSeen = now
}

// RememberResults stores the message carrying the user's latest result
// listing and returns the previous one, if any, so the caller can delete it.
func (s *State) RememberResults(userID int64, ref MessageRef) (prev MessageRef, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, found := s.sessions[userID]
	if !found {
		sess = &session{lastSeen: time.Now().UTC()}
		s.sessions[userID] = sess
	}
	prev, ok = sess.lastResults, sess.hasResults
	sess.lastResults = ref
	sess.hasResults = true
	return prev, ok
}

// TakeResults returns and clears the stored result-listing reference for
// userID. Callers use it to delete the previous listing exactly once when a
// selection is made.
func (s *State) TakeResults(userID int64) (ref MessageRef, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, found := s.sessions[userID]
	if !found || !sess.hasResults {
		return MessageRef{}, false
	}
	ref = sess.lastResults
	sess.lastResults = MessageRef{}
	sess.hasResults = false
	return ref, true
}

// ForgetSession drops the per-user session record. The user stays in the
// broadcast directory and keeps their verified status.
func (s *State) ForgetSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Verify marks userID as having completed the join gate. The transition is
// monotonic for the process lifetime; nothing ever removes an entry.
func (s *State) Verify(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[userID] = struct{}{}
}

// IsVerified reports whether userID completed the join gate.
func (s *State) IsVerified(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.verified[userID]
	return ok
}

// CountVerified returns the number of users that completed the join gate.
func (s *State) CountVerified() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.verified)
}

// Users returns a snapshot of the broadcast directory.
func (s *State) Users() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, 0, len(s.directory))
	for id := range s.directory {
		out = append(out, id)
	}
	return out
}

// CountUsers returns the size of the broadcast directory.
func (s *State) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.directory)
}

// ClearUsers empties the broadcast directory and reports how many entries
// were dropped. Sessions and the verified set are not touched.
func (s *State) ClearUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.directory)
	s.directory = make(map[int64]struct{})
	return n
}

// ActiveSince counts users whose last interaction is at or after cutoff.
func (s *State) ActiveSince(cutoff time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sess := range s.sessions {
		if !sess.lastSeen.Before(cutoff) {
			n++
		}
	}
	return n
}

// RecordSearch increments the served-search counter.
func (s *State) RecordSearch() { s.searches.Add(1) }

// Searches returns the number of searches served since startup.
func (s *State) Searches() int64 { return s.searches.Load() }

// RecordUpdate increments the processed-update counter.
func (s *State) RecordUpdate() { s.updates.Add(1) }

// Updates returns the number of chat updates processed since startup.
func (s *State) Updates() int64 { return s.updates.Load() }

// StartedAt returns the process start time (UTC).
func (s *State) StartedAt() time.Time { return s.startedAt }

// Uptime returns the time elapsed since startup.
func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

// SetDBReady flips the catalog-store readiness flag.
func (s *State) SetDBReady(ok bool) { s.dbReady.Store(ok) }

// DBReady reports whether the catalog store finished initialization.
func (s *State) DBReady() bool { return s.dbReady.Load() }

// SetSearchReady flips the search-index readiness flag.
func (s *State) SetSearchReady(ok bool) { s.searchReady.Store(ok) }

// SearchReady reports whether the search index finished initialization.
func (s *State) SearchReady() bool { return s.searchReady.Load() }
