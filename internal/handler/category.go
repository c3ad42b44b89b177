package handler

import (
	"log/slog"
	"net/http"

	"github.com/vinped/vinped/internal/auth"
	"github.com/vinped/vinped/internal/handler/dto"
	"github.com/vinped/vinped/internal/service"
)

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	svc    *service.CategoryService
	logger *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/categories.
// Returns the default categories plus the user's own.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	categories, err := h.svc.ListCategories(r.Context(), userID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCategoryListResponse(categories))
}
