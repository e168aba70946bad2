package accounts

import (
	"context"
)

// Repository is the data-access contract for accounts. Implementations run
// every statement through the query executor; errors are the sentinel values
// from internal/common.
type Repository interface {
	// Create inserts the account and returns it with the store-assigned id
	// and creation timestamp. A duplicate email surfaces as
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, account *Account) (*Account, error)

	// GetByEmail returns the account with the given normalized email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID returns the account with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// UpdateLastLogin stamps the account's last successful authentication.
	UpdateLastLogin(ctx context.Context, id int64) error

	// Deactivate clears the account's active flag. Accounts are never hard
	// deleted.
	Deactivate(ctx context.Context, id int64) error
}
