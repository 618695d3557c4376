package session

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func createSample(s *Store) *Session {
	return s.Create(
		"adults_general",
		[]string{"q2", "q1"},
		map[string][]int{"q1": {1, 0}, "q2": {0, 2, 1}},
		42,
		false,
	)
}

func TestCreateAndGet(t *testing.T) {
	s := NewStore()
	created := createSample(s)

	if created.ID == "" {
		t.Fatal("empty session id")
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TestID != "adults_general" || got.Seed != 42 || got.Authenticated {
		t.Errorf("unexpected session: %+v", got)
	}
	if len(got.QuestionOrder) != 2 || len(got.OptionOrder) != 2 {
		t.Errorf("order fields not captured: %+v", got)
	}
}

func TestGetUnknown(t *testing.T) {
	s := NewStore()
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestRecordAnswerOverwrites(t *testing.T) {
	s := NewStore()
	sess := createSample(s)

	if err := s.RecordAnswer(sess.ID, "q1", 0); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := s.RecordAnswer(sess.ID, "q1", 1); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	got, _ := s.Get(sess.ID)
	if got.Answers["q1"] != 1 {
		t.Errorf("answer = %d, want 1 (second write wins)", got.Answers["q1"])
	}
}

func TestRecordAnswerUnknownSession(t *testing.T) {
	s := NewStore()
	if err := s.RecordAnswer("nope", "q1", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewStore()
	sess := createSample(s)

	snap, _ := s.Get(sess.ID)
	snap.Answers["q1"] = 99

	fresh, _ := s.Get(sess.ID)
	if _, ok := fresh.Answers["q1"]; ok {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestConcurrentAnswersNotDropped(t *testing.T) {
	s := NewStore()
	sess := createSample(s)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			qid := "q1"
			if i%2 == 0 {
				qid = "q2"
			}
			_ = s.RecordAnswer(sess.ID, qid, i%2)
		}(i)
	}
	wg.Wait()

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Answers) != 2 {
		t.Errorf("answers = %v, want entries for q1 and q2", got.Answers)
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	s := NewStore()
	stale := createSample(s)
	fresh := createSample(s)

	// Backdate the stale session's last access directly.
	s.mu.Lock()
	s.sessions[stale.ID].LastSeen = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()

	if n := s.Sweep(time.Hour); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if _, err := s.Get(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Error("stale session survived sweep")
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Errorf("fresh session evicted: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}
