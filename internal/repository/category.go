package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vinped/vinped/internal/model"
)

// ErrCategoryNotFound is returned when a category lookup matches no row.
var ErrCategoryNotFound = errors.New("category not found")

const categoryColumns = "id, user_id, name, icon, color, is_active, is_default, created_at, updated_at"

// ListCategories retrieves the default catalog plus the user's own
// categories, defaults first.
func (r *Repository) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY is_default DESC, name ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetCategoryByID retrieves a category visible to the user: either a
// default one or one the user owns.
func (r *Repository) GetCategoryByID(ctx context.Context, id, userID string) (*model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1 AND (user_id IS NULL OR user_id = $2)
	`

	category, err := scanCategory(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return category, nil
}

// scanCategory scans a single row into a Category model.
func scanCategory(row pgx.Row) (*model.Category, error) {
	var category model.Category
	err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Icon,
		&category.Color,
		&category.IsActive,
		&category.IsDefault,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
