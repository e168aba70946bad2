package accounts

import (
	"context"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/dbx"
)

// PostgresRepository implements Repository on top of the query executor.
type PostgresRepository struct {
	exec *dbx.Executor
}

func NewPostgresRepository(exec *dbx.Executor) *PostgresRepository {
	return &PostgresRepository{exec: exec}
}

func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {

	query :=
		`INSERT INTO accounts (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, active
		 `

	err := r.exec.QueryRow(ctx, func(row dbx.Row) error {
		return row.Scan(&account.ID, &account.CreatedAt, &account.Active)
	}, query, account.Name, account.Email, account.PasswordHash)

	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query :=
		`SELECT id, name, email, password_hash, created_at, last_login_at, active
		 FROM accounts
		 WHERE email = $1
		 `

	account := &Account{}
	err := r.exec.QueryRow(ctx, func(row dbx.Row) error {
		return row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash,
			&account.CreatedAt, &account.LastLoginAt, &account.Active)
	}, query, email)

	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Account, error) {
	query :=
		`SELECT id, name, email, password_hash, created_at, last_login_at, active
		 FROM accounts
		 WHERE id = $1
		 `

	account := &Account{}
	err := r.exec.QueryRow(ctx, func(row dbx.Row) error {
		return row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash,
			&account.CreatedAt, &account.LastLoginAt, &account.Active)
	}, query, id)

	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query :=
		`UPDATE accounts SET last_login_at = now()
		 WHERE id = $1
		 `

	_, err := r.exec.Exec(ctx, query, id)
	return err
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id int64) error {
	query :=
		`UPDATE accounts SET active = FALSE
		 WHERE id = $1
		 `

	n, err := r.exec.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
