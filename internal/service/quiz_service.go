package service

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/finlitportal/finlit-backend/internal/catalog"
	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/finlitportal/finlit-backend/internal/session"
	"github.com/finlitportal/finlit-backend/internal/shuffle"
	"github.com/rs/zerolog"
)

// Quiz engine errors surfaced to the handler layer.
var (
	ErrLevelTestForbidden = errors.New("authentication required for level tests")
	ErrInvalidSession     = errors.New("invalid session")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrInvalidOption      = errors.New("selected option out of range")
)

// levelVariantPattern matches identifiers of numeric level-tier tests,
// which require authentication outside the children category.
var levelVariantPattern = regexp.MustCompile(`level_\d+$`)

// QuizService orchestrates the test session engine: identifier resolution,
// per-attempt shuffling, answer tracking and scoring.
type QuizService struct {
	resolver *catalog.Resolver
	store    *session.Store
	log      zerolog.Logger
	// seedFn draws the root seed for a new session. Replaceable in tests.
	seedFn func() int32
}

// NewQuizService creates a new QuizService.
func NewQuizService(resolver *catalog.Resolver, store *session.Store, log zerolog.Logger) *QuizService {
	return &QuizService{
		resolver: resolver,
		store:    store,
		log:      log.With().Str("component", "quiz_service").Logger(),
		seedFn:   defaultSeed,
	}
}

// defaultSeed mixes the wall clock with a random draw. Reproducibility
// across runs is not needed — only determinism within one session, which
// comes from storing the seed, not from how it was drawn.
func defaultSeed() int32 {
	return int32(time.Now().UnixMilli()) ^ rand.Int32N(1_000_000_000)
}

// Start begins a new attempt at the identified test.
//
// Level-tier tests (variant matching "level_<N>") require authentication
// unless the identifier's category prefix is the children category; the
// prefix is compared before alias translation, so "school_level_1" is gated
// the same as any non-children identifier.
//
// The returned view presents questions in shuffled order with each
// question's options reordered through that question's permutation; the
// correct index and explanation are never included.
func (s *QuizService) Start(ctx context.Context, identifier string, authenticated bool) (*model.StartResponse, error) {
	if !authenticated && levelVariantPattern.MatchString(identifier) {
		prefix, _, _ := strings.Cut(identifier, "_")
		if prefix != "children" {
			return nil, ErrLevelTestForbidden
		}
	}

	test, err := s.resolver.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	seed := s.seedFn()

	shuffled := shuffle.Shuffle(test.Questions, seed)
	questionOrder := make([]string, len(shuffled))
	optionOrder := make(map[string][]int, len(shuffled))
	for i, q := range shuffled {
		questionOrder[i] = q.ID
		optionOrder[q.ID] = shuffle.Indexes(len(q.Options), shuffle.QuestionSeed(seed, q.ID))
	}

	sess := s.store.Create(test.ID, questionOrder, optionOrder, seed, authenticated)

	view := model.TestView{
		ID:        test.ID,
		Title:     test.Title,
		Category:  test.Category,
		Variant:   test.Variant,
		Questions: make([]model.QuestionView, len(shuffled)),
	}
	for i, q := range shuffled {
		perm := optionOrder[q.ID]
		options := make([]string, len(perm))
		for displayed, original := range perm {
			options[displayed] = q.Options[original]
		}
		view.Questions[i] = model.QuestionView{ID: q.ID, Text: q.Text, Options: options}
	}

	s.log.Info().
		Str("test_id", test.ID).
		Str("session_id", sess.ID).
		Int("questions", len(shuffled)).
		Bool("authenticated", authenticated).
		Msg("Test session started")

	return &model.StartResponse{SessionID: sess.ID, Test: view}, nil
}

// Answer checks one selection against the answer key and records it,
// overwriting any earlier answer to the same question. The selection and
// the revealed correct position are both displayed option positions.
func (s *QuizService) Answer(ctx context.Context, sessionID, pathTestID, questionID string, selectedIndex int) (*model.AnswerResult, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil || sess.TestID != pathTestID {
		return nil, ErrInvalidSession
	}

	test, err := s.resolver.Resolve(pathTestID)
	if err != nil {
		return nil, err
	}

	question := findQuestion(test, questionID)
	if question == nil {
		return nil, ErrInvalidQuestion
	}

	perm, ok := sess.OptionOrder[questionID]
	if !ok {
		// The test file gained this question after the session started.
		return nil, ErrInvalidQuestion
	}
	if selectedIndex < 0 || selectedIndex >= len(perm) {
		return nil, ErrInvalidOption
	}

	correct := perm[selectedIndex] == question.CorrectIndex

	// Inverse lookup: which displayed position holds the correct option.
	correctOptionIndex := -1
	for displayed, original := range perm {
		if original == question.CorrectIndex {
			correctOptionIndex = displayed
			break
		}
	}

	if err := s.store.RecordAnswer(sessionID, questionID, selectedIndex); err != nil {
		return nil, ErrInvalidSession
	}

	result := &model.AnswerResult{
		Correct:            correct,
		CorrectOptionIndex: correctOptionIndex,
	}
	if question.CorrectExplanation != "" {
		explanation := question.CorrectExplanation
		result.ExplanationForSelected = &explanation
	}
	return result, nil
}

// Submit scores the whole attempt: every question in the test counts
// toward the total, answered or not. The session is left untouched, so
// Submit is idempotent until another Answer call changes the tally.
func (s *QuizService) Submit(ctx context.Context, sessionID, pathTestID string) (*model.SubmitResult, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil || sess.TestID != pathTestID {
		return nil, ErrInvalidSession
	}

	test, err := s.resolver.Resolve(pathTestID)
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, q := range test.Questions {
		selected, answered := sess.Answers[q.ID]
		if !answered {
			continue
		}
		perm := sess.OptionOrder[q.ID]
		if selected < 0 || selected >= len(perm) {
			continue
		}
		if perm[selected] == q.CorrectIndex {
			correct++
		}
	}

	total := len(test.Questions)
	score := int(math.Round(float64(correct) / float64(total) * 100))

	s.log.Info().
		Str("session_id", sessionID).
		Str("test_id", pathTestID).
		Int("correct", correct).
		Int("total", total).
		Int("score", score).
		Msg("Test submitted")

	return &model.SubmitResult{Total: total, Correct: correct, Score: score}, nil
}

// List returns every discoverable test plus the files that failed to
// resolve.
func (s *QuizService) List(ctx context.Context) ([]model.TestInfo, []model.SkippedTest, error) {
	return s.resolver.List()
}

// Categories returns the UI-facing category list for the landing page.
func (s *QuizService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.resolver.Categories()
}

func findQuestion(test *model.Test, questionID string) *model.Question {
	for i := range test.Questions {
		if test.Questions[i].ID == questionID {
			return &test.Questions[i]
		}
	}
	return nil
}
