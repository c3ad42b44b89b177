package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/vinped/vinped/internal/auth"
	"github.com/vinped/vinped/internal/cache"
	"github.com/vinped/vinped/internal/metrics"
	"github.com/vinped/vinped/internal/model"
	"github.com/vinped/vinped/internal/repository"
)

// Input limits.
const (
	minNameLength     = 3
	minPasswordLength = 8
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AccountService orchestrates registration, login, logout and identity
// lookup.
type AccountService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	tokens  *auth.TokenManager
	metrics metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *repository.Repository, cacheClient *cache.Cache, tokens *auth.TokenManager, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		repo:    repo,
		cache:   cacheClient,
		tokens:  tokens,
		metrics: recorder,
	}
}

// RegisterInput defines input for registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines input for login.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new identity with a default wallet and an initial
// session. User, wallet and session are inserted in one transaction so
// a failure leaves no partial state. A duplicate email surfaces as
// ErrEmailExists.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	wallet := &model.Wallet{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		Name:           model.DefaultWalletName,
		InitialBalance: 0,
		CurrentBalance: 0,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if err := s.repo.RegisterUser(ctx, user, wallet, session); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.metrics.IncRegistration()

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and opens a new session. Unknown email and
// wrong password return the identical ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.metrics.IncLogin()

	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the session for the given token. Idempotent: revoking
// a token with no session is a no-op success.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.repo.RevokeSession(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if s.cache != nil {
		// Best effort; the deleted row is the authoritative revocation.
		_ = s.cache.MarkSessionRevoked(ctx, token, s.tokens.TTL())
	}

	s.metrics.IncLogout()

	return nil
}

// CurrentUser fetches the identity resolved by the auth gate.
func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// PruneExpiredSessions deletes sessions past their expiry.
// Invoked opportunistically; there is no background sweep.
func (s *AccountService) PruneExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx)
}

// validateRegisterInput checks input shape and collects field-level
// messages.
func validateRegisterInput(input RegisterInput) error {
	verr := &ValidationError{}

	if len(strings.TrimSpace(input.Name)) < minNameLength {
		verr.add("name", fmt.Sprintf("name must be at least %d characters", minNameLength))
	}

	if !emailRegex.MatchString(input.Email) {
		verr.add("email", "email is not valid")
	}

	for _, f := range validatePassword(input.Password) {
		verr.Fields = append(verr.Fields, f)
	}

	return verr.orNil()
}

// validatePassword enforces length and character-class requirements.
func validatePassword(password string) []FieldError {
	var fields []FieldError

	if len(password) < minPasswordLength {
		fields = append(fields, FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		})
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		fields = append(fields, FieldError{Field: "password", Message: "password must contain an uppercase letter"})
	}
	if !hasDigit {
		fields = append(fields, FieldError{Field: "password", Message: "password must contain a digit"})
	}
	if !hasSymbol {
		fields = append(fields, FieldError{Field: "password", Message: "password must contain a symbol"})
	}

	return fields
}

// normalizeEmail lowercases and trims the address. Uniqueness is
// case-insensitive because every write goes through this.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
