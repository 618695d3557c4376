package handler

import (
	"errors"
	"net/http"

	"github.com/finlitportal/finlit-backend/internal/catalog"
	"github.com/finlitportal/finlit-backend/internal/middleware"
	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/finlitportal/finlit-backend/internal/response"
	"github.com/finlitportal/finlit-backend/internal/service"
	"github.com/finlitportal/finlit-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TestHandler handles the test catalog and session endpoints.
type TestHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(quizService *service.QuizService, log zerolog.Logger) *TestHandler {
	return &TestHandler{
		quizService: quizService,
		log:         log.With().Str("component", "test_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/tests
// Returns every discoverable test plus files that failed to load.
func (h *TestHandler) List(c *gin.Context) {
	tests, skipped, err := h.quizService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Catalog listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tests":   tests,
		"skipped": skipped,
	})
}

// Categories godoc
// GET /api/v1/tests/categories
func (h *TestHandler) Categories(c *gin.Context) {
	categories, err := h.quizService.Categories(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Category listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

// Start godoc
// POST /api/v1/tests/:test_id/start
// Begins a new attempt. Anonymous callers may be rejected for level tests.
func (h *TestHandler) Start(c *gin.Context) {
	testID := c.Param("test_id")
	authenticated := middleware.IsAuthenticated(c)

	resp, err := h.quizService.Start(c.Request.Context(), testID, authenticated)
	if err != nil {
		h.failQuiz(c, testID, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Answer godoc
// POST /api/v1/tests/:test_id/answer
func (h *TestHandler) Answer(c *gin.Context) {
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	testID := c.Param("test_id")
	result, err := h.quizService.Answer(c.Request.Context(), req.SessionID, testID, req.QuestionID, *req.SelectedIndex)
	if err != nil {
		h.failQuiz(c, testID, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Submit godoc
// POST /api/v1/tests/:test_id/submit
func (h *TestHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	testID := c.Param("test_id")
	result, err := h.quizService.Submit(c.Request.Context(), req.SessionID, testID)
	if err != nil {
		h.failQuiz(c, testID, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// failQuiz maps quiz engine errors to API error responses.
func (h *TestHandler) failQuiz(c *gin.Context, testID string, err error) {
	var notFound *catalog.NotFoundError
	var parseErr *catalog.ParseError

	switch {
	case errors.Is(err, service.ErrLevelTestForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrLevelTestRestricted)
	case errors.Is(err, service.ErrInvalidSession):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSession)
	case errors.Is(err, service.ErrInvalidQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
	case errors.Is(err, service.ErrInvalidOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOption)
	case errors.As(err, &notFound):
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
	case errors.As(err, &parseErr):
		h.log.Error().Err(err).Str("test_id", testID).Msg("Test file malformed")
		response.Fail(c, http.StatusInternalServerError, response.ErrTestMalformed)
	default:
		h.log.Error().Err(err).Str("test_id", testID).Msg("Quiz operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
