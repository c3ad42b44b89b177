package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vinped/vinped/internal/model"
)

// Common errors for wallet repository operations.
var (
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrWalletNameExists = errors.New("wallet name already exists")
)

const walletColumns = "id, user_id, name, initial_balance, current_balance, credit_limit, current_invoice, is_active, created_at, updated_at"

// CreateWallet inserts a new wallet into the database.
func (r *Repository) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, name, initial_balance, current_balance, credit_limit, current_invoice, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.Name,
		wallet.InitialBalance,
		wallet.CurrentBalance,
		wallet.CreditLimit,
		wallet.CurrentInvoice,
		wallet.IsActive,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrWalletNameExists
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetWalletByID retrieves a wallet by ID, scoped to its owner.
// A wallet belonging to another user is indistinguishable from a
// missing one.
func (r *Repository) GetWalletByID(ctx context.Context, id, userID string) (*model.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE id = $1 AND user_id = $2
	`

	wallet, err := scanWallet(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID: %w", err)
	}

	return wallet, nil
}

// ListWallets retrieves all wallets owned by the user, newest first.
func (r *Repository) ListWallets(ctx context.Context, userID string) ([]*model.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*model.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// UpdateWallet applies a partial update built only from the fields
// present in the patch. The SET clause is assembled from column names
// with positional parameters; values are never interpolated.
func (r *Repository) UpdateWallet(ctx context.Context, id, userID string, patch model.WalletPatch) (*model.Wallet, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)
	argIndex := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *patch.Name)
		argIndex++
	}
	if patch.CreditLimit != nil {
		sets = append(sets, fmt.Sprintf("credit_limit = $%d", argIndex))
		args = append(args, *patch.CreditLimit)
		argIndex++
	}
	if patch.IsActive != nil {
		sets = append(sets, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *patch.IsActive)
		argIndex++
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE wallets
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argIndex, argIndex+1, walletColumns)
	args = append(args, id, userID)

	wallet, err := scanWallet(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrWalletNameExists
		}
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return wallet, nil
}

// DeleteWallet removes a wallet, scoped to its owner.
func (r *Repository) DeleteWallet(ctx context.Context, id, userID string) error {
	query := `DELETE FROM wallets WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrWalletNotFound
	}

	return nil
}

// CountActiveWallets returns the number of active wallets the user owns.
func (r *Repository) CountActiveWallets(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM wallets WHERE user_id = $1 AND is_active = TRUE`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wallets: %w", err)
	}

	return count, nil
}

// scanWallet scans a single row into a Wallet model.
func scanWallet(row pgx.Row) (*model.Wallet, error) {
	var wallet model.Wallet
	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Name,
		&wallet.InitialBalance,
		&wallet.CurrentBalance,
		&wallet.CreditLimit,
		&wallet.CurrentInvoice,
		&wallet.IsActive,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
