package model

import (
	"time"
)

// PasswordResetToken is single-use. The token digest is the primary key, so
// store-level uniqueness holds even though the generator never checks it.
type PasswordResetToken struct {
	TokenHash string    `db:"token_hash" json:"-"`
	AccountID string    `db:"account_id" json:"accountId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateResetTokenParams struct {
	TokenHash string
	AccountID string
	ExpiresAt time.Time
}
