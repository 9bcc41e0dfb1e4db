package state

import (
	"sync"
	"testing"
	"time"
)

func TestTouch_AddsToDirectoryOnce(t *testing.T) {
	s := New()

	s.Touch(1)
	s.Touch(2)
	s.Touch(1) // repeat interaction must not duplicate

	if got := s.CountUsers(); got != 2 {
		t.Fatalf("expected 2 directory entries, got %d", got)
	}
	seen := map[int64]bool{}
	for _, id := range s.Users() {
		seen[id] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("directory snapshot missing users: %v", s.Users())
	}
}

func TestVerify_MonotonicWithinProcess(t *testing.T) {
	s := New()

	if s.IsVerified(7) {
		t.Fatalf("user must start unverified")
	}
	s.Verify(7)
	if !s.IsVerified(7) {
		t.Fatalf("user should be verified after Verify")
	}

	// Unrelated actions never revert the transition.
	s.Touch(7)
	s.ForgetSession(7)
	s.ClearUsers()
	s.RememberResults(7, MessageRef{ChatID: 7, MessageID: 10})
	if !s.IsVerified(7) {
		t.Fatalf("verified status must survive unrelated actions")
	}
	if got := s.CountVerified(); got != 1 {
		t.Fatalf("expected 1 verified user, got %d", got)
	}
}

func TestVerify_ConcurrentCallers(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Verify(id % 10)
			s.Touch(id)
			s.RecordSearch()
			s.RecordUpdate()
		}(int64(i))
	}
	wg.Wait()

	if got := s.CountVerified(); got != 10 {
		t.Fatalf("expected 10 verified users, got %d", got)
	}
	if got := s.Searches(); got != 50 {
		t.Fatalf("expected 50 searches recorded, got %d", got)
	}
	if got := s.Updates(); got != 50 {
		t.Fatalf("expected 50 updates recorded, got %d", got)
	}
}

func TestRememberResults_ReturnsPrevious(t *testing.T) {
	s := New()

	if _, ok := s.RememberResults(3, MessageRef{ChatID: 3, MessageID: 100}); ok {
		t.Fatalf("first listing must have no predecessor")
	}
	prev, ok := s.RememberResults(3, MessageRef{ChatID: 3, MessageID: 101})
	if !ok {
		t.Fatalf("second listing should return the first as predecessor")
	}
	if prev.ChatID != 3 || prev.MessageID != 100 {
		t.Fatalf("unexpected predecessor: %+v", prev)
	}
}

func TestTakeResults_ClearsAfterTake(t *testing.T) {
	s := New()

	if _, ok := s.TakeResults(4); ok {
		t.Fatalf("no listing stored yet")
	}
	s.RememberResults(4, MessageRef{ChatID: 4, MessageID: 200})

	ref, ok := s.TakeResults(4)
	if !ok || ref.MessageID != 200 {
		t.Fatalf("unexpected taken ref: %+v ok=%v", ref, ok)
	}
	// Second take finds nothing: the listing is deleted at most once.
	if _, ok := s.TakeResults(4); ok {
		t.Fatalf("taken listing must not be returned twice")
	}
}

func TestForgetSession_DropsResultsButKeepsDirectory(t *testing.T) {
	s := New()

	s.Touch(5)
	s.RememberResults(5, MessageRef{ChatID: 5, MessageID: 1})
	s.ForgetSession(5)

	if _, ok := s.RememberResults(5, MessageRef{ChatID: 5, MessageID: 2}); ok {
		t.Fatalf("forgotten session must not retain a previous listing")
	}
	if s.CountUsers() != 1 {
		t.Fatalf("directory membership should survive ForgetSession")
	}
}

func TestClearUsers_ReportsDropped(t *testing.T) {
	s := New()

	for i := int64(1); i <= 4; i++ {
		s.Touch(i)
	}
	if n := s.ClearUsers(); n != 4 {
		t.Fatalf("expected 4 dropped entries, got %d", n)
	}
	if s.CountUsers() != 0 {
		t.Fatalf("directory should be empty after ClearUsers")
	}
	// Refill works afterwards.
	s.Touch(9)
	if s.CountUsers() != 1 {
		t.Fatalf("directory should accept users again after ClearUsers")
	}
}

func TestActiveSince_CountsRecentSessions(t *testing.T) {
	s := New()

	s.Touch(1)
	s.Touch(2)
	if got := s.ActiveSince(time.Now().UTC().Add(-time.Minute)); got != 2 {
		t.Fatalf("expected 2 active users, got %d", got)
	}
	if got := s.ActiveSince(time.Now().UTC().Add(time.Hour)); got != 0 {
		t.Fatalf("expected 0 active users for a future cutoff, got %d", got)
	}
}

func TestReadyFlags_DefaultFalseAndFlip(t *testing.T) {
	s := New()

	if s.DBReady() || s.SearchReady() {
		t.Fatalf("readiness flags must start false")
	}
	s.SetDBReady(true)
	s.SetSearchReady(true)
	if !s.DBReady() || !s.SearchReady() {
		t.Fatalf("readiness flags should flip to true")
	}
	s.SetSearchReady(false)
	if s.SearchReady() {
		t.Fatalf("readiness flags should flip back to false")
	}
}

func TestUptime_Positive(t *testing.T) {
	s := New()
	if s.StartedAt().IsZero() {
		t.Fatalf("start time must be stamped")
	}
	if s.Uptime() < 0 {
		t.Fatalf("uptime must not be negative")
	}
}
