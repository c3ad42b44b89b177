package dto

import (
	"time"

	"github.com/vinped/vinped/internal/model"
)

// CreateWalletRequest is the payload for POST /api/v1/wallets.
type CreateWalletRequest struct {
	Name           string   `json:"name"`
	InitialBalance float64  `json:"initial_balance"`
	CreditLimit    *float64 `json:"credit_limit,omitempty"`
}

// UpdateWalletRequest is the payload for PATCH /api/v1/wallets/{id}.
// All fields are optional; at least one must be present.
type UpdateWalletRequest struct {
	Name        *string  `json:"name,omitempty"`
	CreditLimit *float64 `json:"credit_limit,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// WalletResponse is the outward representation of a wallet.
type WalletResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	InitialBalance float64   `json:"initial_balance"`
	CurrentBalance float64   `json:"current_balance"`
	CreditLimit    *float64  `json:"credit_limit,omitempty"`
	CurrentInvoice float64   `json:"current_invoice"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// WalletListResponse wraps a page of wallets.
type WalletListResponse struct {
	Wallets []WalletResponse `json:"wallets"`
	Total   int              `json:"total"`
}

// ToWalletResponse converts a wallet model to its response shape.
func ToWalletResponse(w *model.Wallet) WalletResponse {
	return WalletResponse{
		ID:             w.ID,
		Name:           w.Name,
		InitialBalance: w.InitialBalance,
		CurrentBalance: w.CurrentBalance,
		CreditLimit:    w.CreditLimit,
		CurrentInvoice: w.CurrentInvoice,
		IsActive:       w.IsActive,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

// ToWalletListResponse converts a slice of wallets to the list shape.
func ToWalletListResponse(wallets []*model.Wallet) WalletListResponse {
	out := make([]WalletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, ToWalletResponse(w))
	}
	return WalletListResponse{Wallets: out, Total: len(out)}
}
