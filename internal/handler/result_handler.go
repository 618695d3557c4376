package handler

import (
	"net/http"
	"strconv"

	"github.com/finlitportal/finlit-backend/internal/middleware"
	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/finlitportal/finlit-backend/internal/response"
	"github.com/finlitportal/finlit-backend/internal/service"
	"github.com/finlitportal/finlit-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ResultHandler handles persisted test result endpoints.
type ResultHandler struct {
	resultService *service.ResultService
	log           zerolog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
		log:           log.With().Str("component", "result_handler").Logger(),
	}
}

// Save godoc
// POST /api/v1/tests/save-result
func (h *ResultHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SaveResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.resultService.Save(c.Request.Context(), userID, &req)
	if err != nil {
		h.log.Error().Err(err).Int("user_id", userID).Msg("Result save failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// List godoc
// GET /api/v1/tests/results
func (h *ResultHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.resultService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int("user_id", userID).Msg("Result listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

func currentUserID(c *gin.Context) (int, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return 0, false
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, false
	}
	return id, true
}
