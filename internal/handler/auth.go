package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vinped/vinped/internal/auth"
	"github.com/vinped/vinped/internal/handler/dto"
	"github.com/vinped/vinped/internal/middleware"
	"github.com/vinped/vinped/internal/service"
)

// AuthHandler handles HTTP requests for the account lifecycle.
type AuthHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", result.User.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToAuthResponse(result.User, result.Token))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", result.User.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(result.User, result.Token))
}

// Logout handles POST /api/v1/auth/logout.
// Requires authentication; revokes the presented session token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.BearerToken(r)

	if err := h.svc.Logout(r.Context(), token); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LogoutResponse{Success: true})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing token")
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeValidationError writes field-level validation failures.
func writeValidationError(w http.ResponseWriter, verr *service.ValidationError) {
	details := make([]dto.FieldError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		details = append(details, dto.FieldError{Field: f.Field, Message: f.Message})
	}
	writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
		Error:   "Validation failed",
		Code:    "VALIDATION_FAILED",
		Details: details,
	})
}
