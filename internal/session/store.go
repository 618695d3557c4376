// Package session keeps the in-memory state of active test attempts.
//
// Sessions live for the process lifetime only: there is no persistence and
// no cross-node sharing. A periodic sweep (see internal/worker) evicts
// attempts that have been idle longer than the configured TTL.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Session is one in-progress or completed attempt.
//
// QuestionOrder and OptionOrder are fixed at creation and never mutated
// afterwards; only Answers changes over a session's lifetime. OptionOrder
// maps, per question, a displayed option position to the original authored
// position — it is the only place the original order is recoverable from.
type Session struct {
	ID            string
	TestID        string
	QuestionOrder []string
	OptionOrder   map[string][]int
	Answers       map[string]int
	Seed          int32
	CreatedAt     time.Time
	LastSeen      time.Time
	Authenticated bool
}

// Store is a mutex-guarded map of active sessions. A single coarse lock is
// enough for this workload; it serializes concurrent answers to the same
// session while keeping unrelated sessions cheap.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session and returns a snapshot of it. The session
// id is a fresh UUID and is the sole capability needed to act on the
// session later.
func (s *Store) Create(testID string, questionOrder []string, optionOrder map[string][]int, seed int32, authenticated bool) *Session {
	now := time.Now()
	sess := &Session{
		ID:            uuid.New().String(),
		TestID:        testID,
		QuestionOrder: questionOrder,
		OptionOrder:   optionOrder,
		Answers:       make(map[string]int),
		Seed:          seed,
		CreatedAt:     now,
		LastSeen:      now,
		Authenticated: authenticated,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return snapshot(sess)
}

// Get returns a snapshot of the session and refreshes its last-access time.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.LastSeen = time.Now()
	return snapshot(sess), nil
}

// RecordAnswer stores the displayed option position selected for a
// question, overwriting any previous answer to the same question.
func (s *Store) RecordAnswer(id, questionID string, selectedIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Answers[questionID] = selectedIndex
	sess.LastSeen = time.Now()
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many
// were evicted.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// snapshot copies the session so callers can read it without holding the
// store lock. Answers is copied deeply; the order fields are immutable
// after creation and are shared.
func snapshot(sess *Session) *Session {
	answers := make(map[string]int, len(sess.Answers))
	for qid, idx := range sess.Answers {
		answers[qid] = idx
	}
	out := *sess
	out.Answers = answers
	return &out
}
