package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vinped/vinped/internal/metrics"
	"github.com/vinped/vinped/internal/model"
	"github.com/vinped/vinped/internal/repository"
)

const maxWalletNameLength = 50

// WalletService handles ownership-scoped wallet operations. Every call
// takes the caller's user ID resolved upstream by the auth gate; rows
// owned by other users are invisible.
type WalletService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewWalletService creates a new WalletService.
func NewWalletService(repo *repository.Repository, recorder metrics.Recorder) *WalletService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &WalletService{repo: repo, metrics: recorder}
}

// CreateWalletInput defines input for creating a wallet.
type CreateWalletInput struct {
	Name           string
	InitialBalance float64
	CreditLimit    *float64
}

// CreateWallet creates a wallet for the user. The initial balance also
// seeds the current balance.
func (s *WalletService) CreateWallet(ctx context.Context, userID string, input CreateWalletInput) (*model.Wallet, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateWalletName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wallet := &model.Wallet{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           name,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		CreditLimit:    input.CreditLimit,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateWallet(ctx, wallet); err != nil {
		if errors.Is(err, repository.ErrWalletNameExists) {
			return nil, ErrWalletNameExists
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.metrics.IncWalletCreated()

	return wallet, nil
}

// GetWallet retrieves one wallet owned by the user.
func (s *WalletService) GetWallet(ctx context.Context, userID, walletID string) (*model.Wallet, error) {
	wallet, err := s.repo.GetWalletByID(ctx, walletID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return wallet, nil
}

// ListWallets retrieves all wallets owned by the user, newest first.
func (s *WalletService) ListWallets(ctx context.Context, userID string) ([]*model.Wallet, error) {
	wallets, err := s.repo.ListWallets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return wallets, nil
}

// UpdateWallet applies a partial update. Only fields present in the
// patch are written; an empty patch fails with ErrEmptyPatch.
func (s *WalletService) UpdateWallet(ctx context.Context, userID, walletID string, patch model.WalletPatch) (*model.Wallet, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateWalletName(name); err != nil {
			return nil, err
		}
		patch.Name = &name
	}

	wallet, err := s.repo.UpdateWallet(ctx, walletID, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWalletNotFound):
			return nil, ErrWalletNotFound
		case errors.Is(err, repository.ErrWalletNameExists):
			return nil, ErrWalletNameExists
		}
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return wallet, nil
}

// DeleteWallet removes a wallet. The last active wallet cannot be
// deleted.
func (s *WalletService) DeleteWallet(ctx context.Context, userID, walletID string) error {
	count, err := s.repo.CountActiveWallets(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count wallets: %w", err)
	}
	if count <= 1 {
		return ErrLastWallet
	}

	if err := s.repo.DeleteWallet(ctx, walletID, userID); err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	return nil
}

// validateWalletName checks the 1..50 character bound.
func validateWalletName(name string) error {
	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "name is required")
	} else if len(name) > maxWalletNameLength {
		verr.add("name", fmt.Sprintf("name must be at most %d characters", maxWalletNameLength))
	}
	return verr.orNil()
}
