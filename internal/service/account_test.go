package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinped/vinped/internal/auth"
	"github.com/vinped/vinped/internal/repository"
)

func newAccountFixture(t *testing.T) (*AccountService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewWithDB(mock)
	tokens := auth.NewTokenManager("service-test-secret", time.Hour)
	svc := NewAccountService(repo, nil, tokens, nil)
	return svc, mock
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "created_at", "updated_at"}
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	tests := []struct {
		name   string
		input  RegisterInput
		fields []string
	}{
		{
			name:   "short name",
			input:  RegisterInput{Name: "Al", Email: "al@example.com", Password: "Sup3rSecret!"},
			fields: []string{"name"},
		},
		{
			name:   "invalid email",
			input:  RegisterInput{Name: "Alice", Email: "not-an-email", Password: "Sup3rSecret!"},
			fields: []string{"email"},
		},
		{
			name:   "short password",
			input:  RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "S3c!"},
			fields: []string{"password"},
		},
		{
			name:   "password missing uppercase",
			input:  RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "sup3rsecret!"},
			fields: []string{"password"},
		},
		{
			name:   "password missing digit",
			input:  RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "SuperSecret!"},
			fields: []string{"password"},
		},
		{
			name:   "password missing symbol",
			input:  RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "Sup3rSecret"},
			fields: []string{"password"},
		},
		{
			name:   "everything wrong",
			input:  RegisterInput{Name: "", Email: "nope", Password: ""},
			fields: []string{"name", "email", "password"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)

			seen := make(map[string]bool)
			for _, f := range verr.Fields {
				seen[f.Field] = true
			}
			for _, field := range tt.fields {
				assert.True(t, seen[field], "expected a failure on field %q", field)
			}
		})
	}

	// Validation failures never reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Register_Success(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "Alice Johnson", "alice@example.com",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "Main Wallet",
			float64(0), float64(0), (*float64)(nil), float64(0), true,
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	// Email arrives with stray case and whitespace.
	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  Alice Johnson  ",
		Email:    " Alice@Example.COM ",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, "Alice Johnson", result.User.Name)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "Sup3rSecret!", result.User.PasswordHash)

	// The issued token resolves back to the new user.
	tokens := auth.NewTokenManager("service-test-secret", time.Hour)
	userID, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "alice@example.com",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice Johnson",
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "Sup3rSecret!",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	hash, err := auth.HashPassword("TheRightP4ss!")
	require.NoError(t, err)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow("user-1", "Alice Johnson", "alice@example.com", hash, now, now))

	_, loginErr := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "TheWrongP4ss!",
	})
	assert.ErrorIs(t, loginErr, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Login_ErrorsAreIndistinguishable(t *testing.T) {
	// Unknown email and wrong password must surface the same error
	// value so responses cannot be used for account enumeration.
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	hash, err := auth.HashPassword("TheRightP4ss!")
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow("user-1", "Alice Johnson", "alice@example.com", hash, now, now))

	_, unknownErr := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "x"})
	_, wrongErr := svc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "x"})

	assert.Equal(t, unknownErr, wrongErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Login_Success(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	hash, err := auth.HashPassword("TheRightP4ss!")
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow("user-1", "Alice Johnson", "alice@example.com", hash, now, now))
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	result, loginErr := svc.Login(context.Background(), LoginInput{
		Email:    "Alice@Example.com",
		Password: "TheRightP4ss!",
	})
	require.NoError(t, loginErr)
	assert.Equal(t, "user-1", result.User.ID)
	assert.NotEmpty(t, result.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Logout(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("some-token").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Logout(context.Background(), "some-token")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Logout_EmptyTokenIsNoop(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	err := svc.Logout(context.Background(), "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_PruneExpiredSessions(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM sessions").
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	n, err := svc.PruneExpiredSessions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_CurrentUser_NotFound(t *testing.T) {
	svc, mock := newAccountFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("deleted-user").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.CurrentUser(context.Background(), "deleted-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
