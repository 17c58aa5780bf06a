package model

import (
	"time"
)

// Account is one organization's login identity. (email, role) is unique:
// the same address may register once as a hospital and once as a lab.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	OrgName      string    `db:"org_name" json:"orgName"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Address      string    `db:"address" json:"address,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateAccountParams struct {
	Email        string
	PasswordHash string
	Role         Role
	OrgName      string
	Phone        string
	Address      string
}
