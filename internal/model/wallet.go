package model

import "time"

// DefaultWalletName is the name given to the wallet created at registration.
const DefaultWalletName = "Main Wallet"

// Wallet is a bookkeeping container owned by a single user.
// Balances are stored as numeric in the database and exposed as float64,
// matching the API contract.
type Wallet struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	InitialBalance float64    `json:"initial_balance"`
	CurrentBalance float64    `json:"current_balance"`
	CreditLimit    *float64   `json:"credit_limit,omitempty"`
	CurrentInvoice float64    `json:"current_invoice"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// WalletPatch carries the fields of a partial wallet update.
// Nil means "not present in the request" and the column is left untouched.
type WalletPatch struct {
	Name        *string
	CreditLimit *float64
	IsActive    *bool
}

// IsEmpty returns true when the patch carries no fields.
func (p WalletPatch) IsEmpty() bool {
	return p.Name == nil && p.CreditLimit == nil && p.IsActive == nil
}
