//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vinped/vinped/internal/model"
	"github.com/vinped/vinped/internal/testutil"
)

// newTestEnv connects to the database named by DATABASE_URL, applies
// the embedded migrations and empties the tables. Skipped in short mode
// or when the variable is unset.
func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	if err := Migrate(ctx, dbURL); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.TruncateAll(ctx, repo.Pool()); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return ctx, repo
}

func TestIntegrationRegisterUser(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("register"))
	wallet := testutil.NewTestWallet(t, user.ID, model.DefaultWalletName)
	session := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Token:     testutil.UniqueID("token"),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}

	if err := repo.RegisterUser(ctx, user, wallet, session); err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}

	wallets, err := repo.ListWallets(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListWallets failed: %v", err)
	}
	if len(wallets) != 1 || wallets[0].Name != model.DefaultWalletName {
		t.Errorf("expected one default wallet, got %+v", wallets)
	}

	exists, err := repo.SessionExists(ctx, session.Token)
	if err != nil {
		t.Fatalf("SessionExists failed: %v", err)
	}
	if !exists {
		t.Error("expected session row after registration")
	}
}

func TestIntegrationRegisterUser_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	email := testutil.UniqueEmail("dup")
	first := testutil.NewTestUser(t, email)
	second := testutil.NewTestUser(t, email)

	firstWallet := testutil.NewTestWallet(t, first.ID, model.DefaultWalletName)
	firstSession := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    first.ID,
		Token:     testutil.UniqueID("token"),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.RegisterUser(ctx, first, firstWallet, firstSession); err != nil {
		t.Fatalf("RegisterUser (first) failed: %v", err)
	}

	secondWallet := testutil.NewTestWallet(t, second.ID, model.DefaultWalletName)
	secondSession := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    second.ID,
		Token:     testutil.UniqueID("token"),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	err := repo.RegisterUser(ctx, second, secondWallet, secondSession)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}

	// The failed registration leaves no orphan rows.
	if _, err := repo.GetUserByID(ctx, second.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for losing user, got: %v", err)
	}
}

func TestIntegrationSessionLifecycle(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("session"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token := testutil.UniqueID("token")
	session := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	exists, err := repo.SessionExists(ctx, token)
	if err != nil {
		t.Fatalf("SessionExists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected session to exist")
	}

	if err := repo.RevokeSession(ctx, token); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}

	exists, err = repo.SessionExists(ctx, token)
	if err != nil {
		t.Fatalf("SessionExists after revoke failed: %v", err)
	}
	if exists {
		t.Error("expected session to be gone after revoke")
	}

	// Revoking again is a no-op.
	if err := repo.RevokeSession(ctx, token); err != nil {
		t.Errorf("second RevokeSession failed: %v", err)
	}
}

func TestIntegrationDeleteExpiredSessions(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("expired"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	expired := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Token:     testutil.UniqueID("expired"),
		ExpiresAt: time.Now().Add(-time.Hour),
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	live := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Token:     testutil.UniqueID("live"),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	for _, s := range []*model.Session{expired, live} {
		if err := repo.CreateSession(ctx, s); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	n, err := repo.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted session, got %d", n)
	}

	exists, err := repo.SessionExists(ctx, live.Token)
	if err != nil {
		t.Fatalf("SessionExists failed: %v", err)
	}
	if !exists {
		t.Error("live session must survive the sweep")
	}
}

func TestIntegrationDefaultCategoriesSeeded(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("categories"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	categories, err := repo.ListCategories(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 10 {
		t.Fatalf("expected 10 seeded default categories, got %d", len(categories))
	}
	for _, c := range categories {
		if !c.IsDefault || c.UserID != nil {
			t.Errorf("expected only defaults, got %+v", c)
		}
	}
}

func TestIntegrationWalletUniqueNamePerUser(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("walletname"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	first := testutil.NewTestWallet(t, user.ID, "Savings")
	if err := repo.CreateWallet(ctx, first); err != nil {
		t.Fatalf("CreateWallet (first) failed: %v", err)
	}

	dup := testutil.NewTestWallet(t, user.ID, "Savings")
	if err := repo.CreateWallet(ctx, dup); !errors.Is(err, ErrWalletNameExists) {
		t.Errorf("expected ErrWalletNameExists, got: %v", err)
	}

	// A different user may reuse the name.
	other := testutil.NewTestUser(t, testutil.UniqueEmail("other"))
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser (other) failed: %v", err)
	}
	otherWallet := testutil.NewTestWallet(t, other.ID, "Savings")
	if err := repo.CreateWallet(ctx, otherWallet); err != nil {
		t.Errorf("CreateWallet for other user failed: %v", err)
	}
}
