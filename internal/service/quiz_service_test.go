package service

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/finlitportal/finlit-backend/internal/catalog"
	"github.com/finlitportal/finlit-backend/internal/session"
	"github.com/rs/zerolog"
)

var fourQuestionTest = []byte(`{
	"title": "Основы бюджета",
	"questions": [
		{"id": "q1", "text": "?", "options": ["a", "b", "c"], "correctIndex": 0, "correctExplanation": "потому"},
		{"id": "q2", "text": "?", "options": ["a", "b", "c", "d"], "correctIndex": 3},
		{"id": "q3", "text": "?", "options": ["a", "b"], "correctIndex": 1},
		{"id": "q4", "text": "?", "options": ["a", "b", "c"], "correctIndex": 2}
	]
}`)

func newQuizService(t *testing.T, files map[string][]byte) *QuizService {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: data}
	}
	svc := NewQuizService(catalog.NewResolver(fsys, nil), session.NewStore(), zerolog.Nop())
	svc.seedFn = func() int32 { return 12345 }
	return svc
}

func defaultFiles() map[string][]byte {
	return map[string][]byte{
		"adults/general.json":    fourQuestionTest,
		"adults/level_1.json":    fourQuestionTest,
		"children/level_1.json":  fourQuestionTest,
		"pensioners/basics.json": fourQuestionTest,
	}
}

func TestStartReturnsSessionAndSanitizedView(t *testing.T) {
	svc := newQuizService(t, defaultFiles())

	resp, err := svc.Start(context.Background(), "adults_general", false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("empty session id")
	}
	if resp.Test.ID != "adults_general" || len(resp.Test.Questions) != 4 {
		t.Errorf("unexpected view: %+v", resp.Test)
	}

	seen := make(map[string]bool)
	for _, q := range resp.Test.Questions {
		seen[q.ID] = true
		if len(q.Options) < 2 {
			t.Errorf("question %s lost options: %v", q.ID, q.Options)
		}
	}
	for _, id := range []string{"q1", "q2", "q3", "q4"} {
		if !seen[id] {
			t.Errorf("question %s missing from shuffled view", id)
		}
	}
}

func TestStartIsDeterministicPerSeed(t *testing.T) {
	svc := newQuizService(t, defaultFiles())

	first, err := svc.Start(context.Background(), "adults_general", false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	second, err := svc.Start(context.Background(), "adults_general", false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := range first.Test.Questions {
		a, b := first.Test.Questions[i], second.Test.Questions[i]
		if a.ID != b.ID {
			t.Fatalf("question order differs for equal seeds: %s vs %s", a.ID, b.ID)
		}
		for j := range a.Options {
			if a.Options[j] != b.Options[j] {
				t.Fatalf("option order differs for equal seeds in %s", a.ID)
			}
		}
	}
}

func TestStartLevelGate(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	if _, err := svc.Start(ctx, "adults_level_1", false); !errors.Is(err, ErrLevelTestForbidden) {
		t.Errorf("anonymous adults_level_1: want ErrLevelTestForbidden, got %v", err)
	}
	// The children prefix is exempt, its alias is not.
	if _, err := svc.Start(ctx, "children_level_1", false); err != nil {
		t.Errorf("anonymous children_level_1: %v", err)
	}
	if _, err := svc.Start(ctx, "school_level_1", false); !errors.Is(err, ErrLevelTestForbidden) {
		t.Errorf("anonymous school_level_1: want ErrLevelTestForbidden, got %v", err)
	}
	if _, err := svc.Start(ctx, "adults_level_1", true); err != nil {
		t.Errorf("authenticated adults_level_1: %v", err)
	}
	// Non-level variants are never gated.
	if _, err := svc.Start(ctx, "seniors_basics", false); err != nil {
		t.Errorf("anonymous seniors_basics: %v", err)
	}
}

func TestAnswerRoundTripThroughPermutation(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	resp, err := svc.Start(ctx, "adults_general", false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// For every question exactly one displayed position must be correct,
	// and the revealed correct position must be that same position.
	for _, q := range resp.Test.Questions {
		correctAt := -1
		for idx := range q.Options {
			result, err := svc.Answer(ctx, resp.SessionID, "adults_general", q.ID, idx)
			if err != nil {
				t.Fatalf("Answer(%s, %d): %v", q.ID, idx, err)
			}
			if result.Correct {
				if correctAt != -1 {
					t.Fatalf("question %s has two correct positions", q.ID)
				}
				correctAt = idx
			}
			if result.CorrectOptionIndex < 0 || result.CorrectOptionIndex >= len(q.Options) {
				t.Fatalf("question %s revealed position %d out of range", q.ID, result.CorrectOptionIndex)
			}
		}
		if correctAt == -1 {
			t.Fatalf("question %s has no correct position", q.ID)
		}
		result, _ := svc.Answer(ctx, resp.SessionID, "adults_general", q.ID, correctAt)
		if result.CorrectOptionIndex != correctAt {
			t.Errorf("question %s: revealed %d, correct selection was %d", q.ID, result.CorrectOptionIndex, correctAt)
		}
	}
}

func TestAnswerExplanationPresence(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	resp, _ := svc.Start(ctx, "adults_general", false)

	withExplanation, err := svc.Answer(ctx, resp.SessionID, "adults_general", "q1", 0)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if withExplanation.ExplanationForSelected == nil || *withExplanation.ExplanationForSelected != "потому" {
		t.Errorf("q1 explanation = %v", withExplanation.ExplanationForSelected)
	}

	without, err := svc.Answer(ctx, resp.SessionID, "adults_general", "q2", 0)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if without.ExplanationForSelected != nil {
		t.Errorf("q2 explanation = %q, want none", *without.ExplanationForSelected)
	}
}

func TestAnswerRejectsBadInput(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	resp, _ := svc.Start(ctx, "adults_general", false)

	if _, err := svc.Answer(ctx, "no-such-session", "adults_general", "q1", 0); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("unknown session: got %v", err)
	}
	if _, err := svc.Answer(ctx, resp.SessionID, "adults_general", "q99", 0); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("unknown question: got %v", err)
	}
	if _, err := svc.Answer(ctx, resp.SessionID, "adults_general", "q1", 7); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("index out of range: got %v", err)
	}
	if _, err := svc.Answer(ctx, resp.SessionID, "adults_general", "q1", -1); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("negative index: got %v", err)
	}
}

func TestAnswerSessionBoundToTest(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	resp, _ := svc.Start(ctx, "adults_general", false)

	if _, err := svc.Answer(ctx, resp.SessionID, "seniors_basics", "q1", 0); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("cross-test session use: got %v", err)
	}
	if _, err := svc.Submit(ctx, resp.SessionID, "seniors_basics"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("cross-test submit: got %v", err)
	}
}

func TestSubmitScoring(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	resp, _ := svc.Start(ctx, "adults_general", false)

	// Answer every question, then find which displayed positions are
	// correct so we can aim for exactly two right out of four.
	correctPositions := make(map[string]int)
	for _, q := range resp.Test.Questions {
		result, err := svc.Answer(ctx, resp.SessionID, "adults_general", q.ID, 0)
		if err != nil {
			t.Fatalf("Answer: %v", err)
		}
		correctPositions[q.ID] = result.CorrectOptionIndex
	}

	for i, q := range resp.Test.Questions {
		selection := correctPositions[q.ID]
		if i >= 2 {
			// Deliberately wrong for the last two questions.
			selection = (selection + 1) % len(q.Options)
		}
		if _, err := svc.Answer(ctx, resp.SessionID, "adults_general", q.ID, selection); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}

	result, err := svc.Submit(ctx, resp.SessionID, "adults_general")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Total != 4 || result.Correct != 2 || result.Score != 50 {
		t.Errorf("got %+v, want total=4 correct=2 score=50", result)
	}
}

func TestSubmitCountsUnansweredAsWrong(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	resp, _ := svc.Start(ctx, "adults_general", false)

	result, err := svc.Submit(ctx, resp.SessionID, "adults_general")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Total != 4 || result.Correct != 0 || result.Score != 0 {
		t.Errorf("blank submit = %+v", result)
	}
}

func TestSubmitReflectsLatestAnswer(t *testing.T) {
	svc := newQuizService(t, defaultFiles())
	ctx := context.Background()

	resp, _ := svc.Start(ctx, "adults_general", false)
	q := resp.Test.Questions[0]

	probe, err := svc.Answer(ctx, resp.SessionID, "adults_general", q.ID, 0)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	// Right answer first, then overwrite with a wrong one.
	if _, err := svc.Answer(ctx, resp.SessionID, "adults_general", q.ID, probe.CorrectOptionIndex); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	wrong := (probe.CorrectOptionIndex + 1) % len(q.Options)
	if _, err := svc.Answer(ctx, resp.SessionID, "adults_general", q.ID, wrong); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	result, err := svc.Submit(ctx, resp.SessionID, "adults_general")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Correct != 0 {
		t.Errorf("correct = %d, want 0 (last answer wins)", result.Correct)
	}
}

func TestStartUnknownTest(t *testing.T) {
	svc := newQuizService(t, defaultFiles())

	_, err := svc.Start(context.Background(), "adults_missing", false)
	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("want NotFoundError, got %v", err)
	}
}
