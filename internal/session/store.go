package session

import (
	"sync"
	"time"

	"github.com/ziadkadry99/finquery/internal/llm"
)

// DefaultHistoryCap is the maximum number of messages retained per session.
const DefaultHistoryCap = 20

// Message is a single conversational turn.
type Message struct {
	Role    llm.Role `json:"role"`
	Content string   `json:"content"`
}

// Session is a point-in-time snapshot of one conversation.
type Session struct {
	ID         string    `json:"id"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type entry struct {
	mu         sync.Mutex
	messages   []Message
	createdAt  time.Time
	lastActive time.Time
}

// Store holds conversation history in process memory. Appends to the same
// session serialize on a per-session mutex; different sessions never block
// each other beyond the map lookup.
type Store struct {
	mu       sync.RWMutex
	cap      int
	sessions map[string]*entry
}

// NewStore creates a session store with the given history cap.
// A cap <= 0 falls back to DefaultHistoryCap.
func NewStore(historyCap int) *Store {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Store{
		cap:      historyCap,
		sessions: make(map[string]*entry),
	}
}

func (s *Store) lookup(id string, create bool) *entry {
	s.mu.RLock()
	e := s.sessions[id]
	s.mu.RUnlock()
	if e != nil || !create {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.sessions[id]; e == nil {
		now := time.Now()
		e = &entry{createdAt: now, lastActive: now}
		s.sessions[id] = e
	}
	return e
}

// GetOrCreate returns a snapshot of the session, creating it with empty
// history if absent. Idempotent.
func (s *Store) GetOrCreate(id string) Session {
	e := s.lookup(id, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	return Session{
		ID:         id,
		Messages:   copyMessages(e.messages),
		CreatedAt:  e.createdAt,
		LastActive: e.lastActive,
	}
}

// Append adds a message to the session, enforces the history cap and
// returns the resulting message sequence. The session is created if absent.
func (s *Store) Append(id string, role llm.Role, content string) []Message {
	e := s.lookup(id, true)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.messages = append(e.messages, Message{Role: role, Content: content})
	e.messages = trim(e.messages, s.cap)
	e.lastActive = time.Now()
	return copyMessages(e.messages)
}

// History returns the current message sequence for the session.
// Unknown session ids yield an empty sequence.
func (s *Store) History(id string) []Message {
	e := s.lookup(id, false)
	if e == nil {
		return []Message{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyMessages(e.messages)
}

// Clear removes the session entirely. Returns false for unknown ids.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Sweep removes sessions idle for longer than maxIdle and returns the
// number removed. Meant to be driven by a periodic scheduler.
func (s *Store) Sweep(maxIdle time.Duration) int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := now.Sub(e.lastActive)
		e.mu.Unlock()
		if idle > maxIdle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// trim enforces the history cap: the oldest non-system messages are evicted
// first and at most one leading system message survives. It never drops
// more than needed to satisfy the cap.
func trim(msgs []Message, cap int) []Message {
	if len(msgs) <= cap {
		return msgs
	}

	var system *Message
	nonSystem := make([]Message, 0, len(msgs))
	for i := range msgs {
		if msgs[i].Role == llm.RoleSystem {
			if system == nil {
				m := msgs[i]
				system = &m
			}
			continue
		}
		nonSystem = append(nonSystem, msgs[i])
	}

	keep := cap
	if system != nil {
		keep = cap - 1
	}
	if len(nonSystem) > keep {
		nonSystem = nonSystem[len(nonSystem)-keep:]
	}

	if system == nil {
		return nonSystem
	}
	return append([]Message{*system}, nonSystem...)
}

func copyMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
