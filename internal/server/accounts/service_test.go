package accounts

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/auth"
	"github.com/dmitrijs2005/authvault/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type fakeRepo struct {
	createOut *Account
	createErr error

	getByEmailOut *Account
	getByEmailErr error

	getByIDOut *Account
	getByIDErr error

	lastLoginErr    error
	lastLoginCalled bool

	deactivateErr error
}

func (f *fakeRepo) Create(ctx context.Context, a *Account) (*Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	a.ID = 1
	a.CreatedAt = time.Now()
	a.Active = true
	return a, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.getByEmailOut, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*Account, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

func (f *fakeRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	f.lastLoginCalled = true
	return f.lastLoginErr
}

func (f *fakeRepo) Deactivate(ctx context.Context, id int64) error {
	return f.deactivateErr
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	cfg := &config.Config{
		SecretKey:  "k",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost, // keep tests fast
	}
	return NewService(repo, logging.NewJSONLogger(io.Discard), cfg)
}

// --- Register ---

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	tests := []struct {
		name     string
		accName  string
		email    string
		password string
	}{
		{"missing name", "", "a@x.com", "secret123"},
		{"bad email", "A", "not-an-email", "secret123"},
		{"short password", "A", "a@x.com", "short"},
		{"empty password", "A", "a@x.com", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tc.accName, tc.email, tc.password)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("want common.ErrorValidation, got %v", err)
			}
		})
	}
}

func TestRegister_Success_TokenMatchesAccount(t *testing.T) {
	repo := &fakeRepo{getByEmailErr: common.ErrorNotFound}
	svc := newTestService(t, repo)

	acc, token, err := svc.Register(context.Background(), "Alice", "  A@X.com ", "secret123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if acc.Email != "a@x.com" {
		t.Fatalf("email not normalized: %q", acc.Email)
	}
	if acc.PasswordHash == "secret123" || acc.PasswordHash == "" {
		t.Fatalf("password stored without hashing: %q", acc.PasswordHash)
	}

	claims, err := auth.ParseToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.AccountID != acc.ID || claims.Email != acc.Email {
		t.Fatalf("claims do not match account: %+v", claims)
	}
}

func TestRegister_DuplicateEmail_Precheck(t *testing.T) {
	repo := &fakeRepo{getByEmailOut: &Account{ID: 1, Email: "a@x.com"}}
	svc := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), "Alice", "a@x.com", "secret123")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

// A concurrent signup can pass the existence check and lose the race at
// insert time; the unique-index failure must surface as the same conflict.
func TestRegister_DuplicateEmail_InsertRace(t *testing.T) {
	repo := &fakeRepo{
		getByEmailErr: common.ErrorNotFound,
		createErr:     common.ErrorAlreadyExists,
	}
	svc := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), "Alice", "a@x.com", "secret123")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestRegister_StoreUnavailable(t *testing.T) {
	repo := &fakeRepo{getByEmailErr: common.ErrorUnavailable}
	svc := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), "Alice", "a@x.com", "secret123")
	if !errors.Is(err, common.ErrorUnavailable) {
		t.Fatalf("want common.ErrorUnavailable, got %v", err)
	}
}

// --- Login ---

func activeAccount(t *testing.T, password string) *Account {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	return &Account{ID: 7, Name: "Alice", Email: "a@x.com", PasswordHash: hash, Active: true}
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeRepo{getByEmailOut: activeAccount(t, "secret123")}
	svc := newTestService(t, repo)

	acc, token, err := svc.Login(context.Background(), "A@x.com", "secret123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if acc.ID != 7 {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if !repo.lastLoginCalled {
		t.Fatal("expected last login timestamp update")
	}

	claims, err := auth.ParseToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.AccountID != 7 {
		t.Fatalf("claims do not match account: %+v", claims)
	}
}

// Unknown email, wrong password and inactive account must be
// indistinguishable to the caller.
func TestLogin_GenericUnauthorized(t *testing.T) {
	inactive := activeAccount(t, "secret123")
	inactive.Active = false

	tests := []struct {
		name     string
		repo     *fakeRepo
		password string
	}{
		{"unknown email", &fakeRepo{getByEmailErr: common.ErrorNotFound}, "secret123"},
		{"wrong password", &fakeRepo{getByEmailOut: activeAccount(t, "secret123")}, "wrong-password"},
		{"inactive account", &fakeRepo{getByEmailOut: inactive}, "secret123"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, tc.repo)
			_, _, err := svc.Login(context.Background(), "a@x.com", tc.password)
			if !errors.Is(err, common.ErrorUnauthorized) {
				t.Fatalf("want common.ErrorUnauthorized, got %v", err)
			}
		})
	}
}

func TestLogin_LastLoginFailureDoesNotFailLogin(t *testing.T) {
	repo := &fakeRepo{
		getByEmailOut: activeAccount(t, "secret123"),
		lastLoginErr:  errors.New("db glitch"),
	}
	svc := newTestService(t, repo)

	_, token, err := svc.Login(context.Background(), "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("Login must succeed despite timestamp failure, got %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
}

// --- Profile / Deactivate ---

func TestProfile_NotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepo{getByIDErr: common.ErrorNotFound})

	_, err := svc.Profile(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeactivate_Passthrough(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	if err := svc.Deactivate(context.Background(), 7); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
}
