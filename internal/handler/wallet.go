package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinped/vinped/internal/auth"
	"github.com/vinped/vinped/internal/handler/dto"
	"github.com/vinped/vinped/internal/model"
	"github.com/vinped/vinped/internal/service"
)

// WalletHandler handles HTTP requests for wallet operations.
// All routes require authentication; wallets are scoped to the
// requesting user.
type WalletHandler struct {
	svc    *service.WalletService
	logger *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc *service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	var req dto.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	wallet, err := h.svc.CreateWallet(r.Context(), userID, service.CreateWalletInput{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		CreditLimit:    req.CreditLimit,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("wallet_created",
		"wallet_id", wallet.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusCreated, dto.ToWalletResponse(wallet))
}

// Get handles GET /api/v1/wallets/{id}.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Wallet ID is required")
		return
	}

	wallet, err := h.svc.GetWallet(r.Context(), userID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWalletResponse(wallet))
}

// List handles GET /api/v1/wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	wallets, err := h.svc.ListWallets(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWalletListResponse(wallets))
}

// Update handles PATCH /api/v1/wallets/{id}.
func (h *WalletHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Wallet ID is required")
		return
	}

	var req dto.UpdateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	wallet, err := h.svc.UpdateWallet(r.Context(), userID, id, model.WalletPatch{
		Name:        req.Name,
		CreditLimit: req.CreditLimit,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("wallet_updated",
		"wallet_id", wallet.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.ToWalletResponse(wallet))
}

// Delete handles DELETE /api/v1/wallets/{id}.
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Wallet ID is required")
		return
	}

	if err := h.svc.DeleteWallet(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("wallet_deleted", "wallet_id", id, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *WalletHandler) handleServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, service.ErrWalletNotFound):
		writeError(w, http.StatusNotFound, "WALLET_NOT_FOUND", "Wallet not found")
	case errors.Is(err, service.ErrWalletNameExists):
		writeError(w, http.StatusConflict, "WALLET_NAME_TAKEN", "A wallet with that name already exists")
	case errors.Is(err, service.ErrLastWallet):
		writeError(w, http.StatusBadRequest, "LAST_WALLET", "Cannot delete the only wallet")
	case errors.Is(err, service.ErrEmptyPatch):
		writeError(w, http.StatusBadRequest, "EMPTY_UPDATE", "No fields to update")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
