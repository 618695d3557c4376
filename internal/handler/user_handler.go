package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/finlitportal/finlit-backend/internal/middleware"
	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/finlitportal/finlit-backend/internal/repository"
	"github.com/finlitportal/finlit-backend/internal/response"
	"github.com/finlitportal/finlit-backend/internal/service"
	"github.com/finlitportal/finlit-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandler handles account and profile endpoints.
type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
	log         zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, authService *service.AuthService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		log:         log.With().Str("component", "user_handler").Logger(),
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,uuid"`
}

// Register godoc
// POST /api/v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
		case errors.Is(err, repository.ErrDuplicateUsername):
			response.Fail(c, http.StatusConflict, response.ErrUsernameTaken)
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidUsername):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"detail": err.Error()})
		default:
			h.log.Error().Err(err).Msg("Registration failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.log.Error().Err(err).Msg("Token issue after registration failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login godoc
// POST /api/v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Msg("Login failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.log.Error().Err(err).Msg("Token issue failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh godoc
// POST /api/v1/users/refresh
// Rotates the refresh token: the presented one is revoked and a new pair
// is issued.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx := c.Request.Context()
	userID, err := h.authService.ResolveRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) {
			response.Fail(c, http.StatusUnauthorized, response.ErrRefreshInvalid)
			return
		}
		h.log.Error().Err(err).Msg("Refresh lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrRefreshInvalid)
		return
	}

	if err := h.authService.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		h.log.Error().Err(err).Msg("Refresh revocation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.log.Error().Err(err).Msg("Token issue failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tokens": tokens})
}

// Logout godoc
// POST /api/v1/users/logout
// Revokes the presented refresh token. The access token simply expires.
func (h *UserHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		h.log.Error().Err(err).Msg("Logout failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Cabinet godoc
// GET /api/v1/users/cabinet
// Profile, result history and aggregate stats in one payload.
func (h *UserHandler) Cabinet(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	user, results, stats, err := h.userService.Cabinet(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int("user_id", userID).Msg("Cabinet assembly failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":    user,
		"results": results,
		"stats":   stats,
	})
}

func (h *UserHandler) issueTokens(c *gin.Context, user *model.User) (gin.H, error) {
	username := ""
	if user.Username != nil {
		username = *user.Username
	}

	access, err := h.authService.GenerateAccessToken(user.ID, user.Email, username, user.Name)
	if err != nil {
		return nil, err
	}
	refresh, err := h.authService.IssueRefreshToken(c.Request.Context(), user.ID)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	}, nil
}
