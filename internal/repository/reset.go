package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medlink/portal-server-go/internal/model"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, params model.CreateResetTokenParams) (*model.PasswordResetToken, error)
	Consume(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error)
	DeleteByAccountID(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ResetTokenRepository
}

type resetTokenRepo struct {
	db sqlxDB
}

func NewResetTokenRepository(db *sqlx.DB) ResetTokenRepository {
	return &resetTokenRepo{db: db}
}

func (r *resetTokenRepo) WithTx(tx *sqlx.Tx) ResetTokenRepository {
	return &resetTokenRepo{db: tx}
}

func (r *resetTokenRepo) Create(ctx context.Context, params model.CreateResetTokenParams) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	err := r.db.GetContext(ctx, &token, `
		INSERT INTO password_reset_tokens (token_hash, account_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.TokenHash, params.AccountID, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Consume deletes the token and returns it in one statement. When two
// requests race with the same token, the row-level delete admits exactly one
// winner; the loser sees no row. Expired tokens are treated as nonexistent.
func (r *resetTokenRepo) Consume(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	err := r.db.GetContext(ctx, &token, `
		DELETE FROM password_reset_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
		RETURNING *
	`, tokenHash)
	return HandleNotFound(&token, err)
}

func (r *resetTokenRepo) DeleteByAccountID(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE account_id = $1`, accountID)
	return err
}

func (r *resetTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
