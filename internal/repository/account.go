package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medlink/portal-server-go/internal/model"
)

// ErrDuplicateEmail is returned when an insert violates the (email, role)
// uniqueness constraint. The service layer translates it into the same
// generic validation error as the pre-insert check, so a racing duplicate
// signup leaks nothing extra.
var ErrDuplicateEmail = errors.New("email already registered for role")

const pqUniqueViolation = "23505"

type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByEmailAndRole(ctx context.Context, email string, role model.Role) (*model.Account, error)
	Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AccountRepository
}

type accountRepo struct {
	db sqlxDB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) WithTx(tx *sqlx.Tx) AccountRepository {
	return &accountRepo{db: tx}
}

func (r *accountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE id = $1
	`, id)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) FindByEmailAndRole(ctx context.Context, email string, role model.Role) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE email = $1 AND role = $2
	`, email, role)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		INSERT INTO accounts (email, password_hash, role, org_name, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, params.Email, params.PasswordHash, params.Role, params.OrgName, params.Phone, params.Address)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1
	`, id, passwordHash, time.Now())
	return err
}
