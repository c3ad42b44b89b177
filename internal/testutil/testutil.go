// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinped/vinped/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420421

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TruncateAll empties every application table. Default categories are
// reseeded by the migration, so they are kept.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		"TRUNCATE sessions CASCADE",
		"TRUNCATE wallets CASCADE",
		"DELETE FROM categories WHERE user_id IS NOT NULL",
		"TRUNCATE users CASCADE",
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// NewTestUser creates a test user with sensible defaults. The password
// hash corresponds to "Sup3rSecret!".
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash test password: %v", err)
	}
	now := time.Now().UTC()
	return &model.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestWallet creates a test wallet owned by the given user.
func NewTestWallet(t testing.TB, userID, name string) *model.Wallet {
	t.Helper()
	now := time.Now().UTC()
	return &model.Wallet{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           name,
		InitialBalance: 100,
		CurrentBalance: 100,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
