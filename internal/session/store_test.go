package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ziadkadry99/finquery/internal/llm"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	store := NewStore(20)

	first := store.GetOrCreate("abc")
	second := store.GetOrCreate("abc")

	if first.ID != "abc" || second.ID != "abc" {
		t.Errorf("unexpected session ids: %q, %q", first.ID, second.ID)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 session, got %d", store.Count())
	}
	if len(first.Messages) != 0 {
		t.Errorf("expected empty history, got %d messages", len(first.Messages))
	}
}

func TestAppendReturnsOrderedHistory(t *testing.T) {
	store := NewStore(20)

	store.Append("s", llm.RoleUser, "first")
	msgs := store.Append("s", llm.RoleAssistant, "second")

	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Error("messages not in append order")
	}
}

func TestHistoryCapInvariant(t *testing.T) {
	const cap = 5
	store := NewStore(cap)

	for i := 0; i < 3*cap; i++ {
		msgs := store.Append("s", llm.RoleUser, fmt.Sprintf("msg %d", i))
		if len(msgs) > cap {
			t.Fatalf("after append %d: history length %d exceeds cap %d", i, len(msgs), cap)
		}
	}

	msgs := store.History("s")
	if len(msgs) != cap {
		t.Fatalf("expected %d messages, got %d", cap, len(msgs))
	}
	// The newest messages survive.
	if msgs[cap-1].Content != "msg 14" {
		t.Errorf("expected newest message last, got %q", msgs[cap-1].Content)
	}
	if msgs[0].Content != "msg 10" {
		t.Errorf("eviction dropped more than necessary: oldest is %q", msgs[0].Content)
	}
}

func TestCapPreservesLeadingSystemMessage(t *testing.T) {
	const cap = 4
	store := NewStore(cap)

	store.Append("s", llm.RoleSystem, "system prompt")
	for i := 0; i < 10; i++ {
		store.Append("s", llm.RoleUser, fmt.Sprintf("msg %d", i))
	}

	msgs := store.History("s")
	if len(msgs) != cap {
		t.Fatalf("expected %d messages, got %d", cap, len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Errorf("expected leading system message, got role %q", msgs[0].Role)
	}
	systemCount := 0
	for _, m := range msgs {
		if m.Role == llm.RoleSystem {
			systemCount++
		}
	}
	if systemCount != 1 {
		t.Errorf("expected exactly 1 system message, got %d", systemCount)
	}
	if msgs[cap-1].Content != "msg 9" {
		t.Errorf("expected newest message last, got %q", msgs[cap-1].Content)
	}
}

func TestSessionIsolation(t *testing.T) {
	store := NewStore(20)

	store.Append("a", llm.RoleUser, "for a")
	store.Append("b", llm.RoleUser, "for b")
	store.Append("a", llm.RoleUser, "also for a")

	if got := len(store.History("b")); got != 1 {
		t.Errorf("appends to a leaked into b: got %d messages", got)
	}
	if store.History("b")[0].Content != "for b" {
		t.Error("session b content altered")
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	store := NewStore(20)
	msgs := store.History("nope")
	if msgs == nil || len(msgs) != 0 {
		t.Errorf("expected empty slice for unknown session, got %v", msgs)
	}
	if store.Count() != 0 {
		t.Error("History must not create sessions")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := NewStore(20)
	store.Append("s", llm.RoleUser, "hello")

	if !store.Clear("s") {
		t.Error("first clear should return true")
	}
	if len(store.History("s")) != 0 {
		t.Error("history should be empty after clear")
	}
	if store.Clear("s") {
		t.Error("second clear should return false")
	}
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	store := NewStore(20)
	store.Append("old", llm.RoleUser, "hello")

	// Backdate the session's last activity.
	store.mu.Lock()
	store.sessions["old"].lastActive = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	store.Append("fresh", llm.RoleUser, "hi")

	removed := store.Sweep(time.Hour)
	if removed != 1 {
		t.Fatalf("expected 1 session removed, got %d", removed)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 session remaining, got %d", store.Count())
	}
	if len(store.History("fresh")) != 1 {
		t.Error("fresh session should survive the sweep")
	}
}

func TestConcurrentAppendsSameSession(t *testing.T) {
	const cap = 10
	store := NewStore(cap)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Append("s", llm.RoleUser, fmt.Sprintf("msg %d", n))
		}(i)
	}
	wg.Wait()

	if got := len(store.History("s")); got != cap {
		t.Errorf("expected history at cap %d, got %d", cap, got)
	}
}

func TestConcurrentAppendsDifferentSessions(t *testing.T) {
	store := NewStore(20)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", n)
			for j := 0; j < 5; j++ {
				store.Append(id, llm.RoleUser, fmt.Sprintf("msg %d", j))
			}
		}(i)
	}
	wg.Wait()

	if store.Count() != 20 {
		t.Fatalf("expected 20 sessions, got %d", store.Count())
	}
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("session-%d", i)
		if got := len(store.History(id)); got != 5 {
			t.Errorf("%s: expected 5 messages, got %d", id, got)
		}
	}
}
