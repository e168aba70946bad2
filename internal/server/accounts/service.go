package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/auth"
	"github.com/dmitrijs2005/authvault/internal/server/config"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
	// MaxPasswordLength matches bcrypt's input limit.
	MaxPasswordLength = 72
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service implements the credential lifecycle: signup, login, profile lookup
// and deactivation. It owns token issuance; the password hash never leaves
// this package.
type Service struct {
	repo       Repository
	logger     logging.Logger
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

func NewService(repo Repository, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:       repo,
		logger:     logger.With("module", "accounts"),
		jwtSecret:  []byte(cfg.SecretKey),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
	}
}

// NormalizeEmail lower-cases and trims an email so that lookups and the
// store's unique index agree on a single representation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(name, email, password string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d characters", common.ErrorValidation, MaxPasswordLength)
	}
	return nil
}

// Register creates an account and issues its first token.
//
// The existence check and the insert are two separate statements, so a
// concurrent duplicate signup can pass the check and still hit the store's
// unique index; that insert-time conflict is reported as the same
// common.ErrorAlreadyExists as the check-time one.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Account, string, error) {

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if err := validateSignup(name, email, password); err != nil {
		return nil, "", err
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	account := &Account{Name: name, Email: email, PasswordHash: hash}

	account, err = s.repo.Create(ctx, account)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(account.ID, account.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return account, token, nil
}

// Login authenticates the credentials and issues a token. An unknown email,
// an inactive account and a wrong password all collapse into the one
// common.ErrorUnauthorized so the response reveals nothing about which part
// failed.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {

	email = NormalizeEmail(email)

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", err
	}

	if !account.Active {
		return nil, "", common.ErrorUnauthorized
	}

	if !auth.CheckPassword(password, account.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	// Best effort: a failed timestamp update must not fail the login.
	if err := s.repo.UpdateLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn(ctx, "last login update failed", "account_id", account.ID, "error", err)
	}

	token, err := auth.GenerateToken(account.ID, account.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return account, token, nil
}

// Profile returns the account behind an authenticated request.
func (s *Service) Profile(ctx context.Context, id int64) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// Deactivate clears the account's active flag. Outstanding tokens stay
// formally valid until expiry (verification is stateless); Login refuses
// inactive accounts from this point on.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
