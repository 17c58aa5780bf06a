package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medlink/portal-server-go/internal/database"
	"github.com/medlink/portal-server-go/internal/model"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL, applies
// migrations and starts from empty tables. Tests are skipped when the
// variable is unset so the suite stays runnable without Postgres.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(url)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(context.Background()))

	_, err = db.ExecContext(context.Background(),
		`TRUNCATE accounts, sessions, password_reset_tokens, consultation_requests, appointments CASCADE`)
	require.NoError(t, err)

	return db
}

func createTestAccount(t *testing.T, db *database.DB, email string) *model.Account {
	t.Helper()

	repo := NewAccountRepository(db.DB)
	account, err := repo.Create(context.Background(), model.CreateAccountParams{
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=1024,t=1,p=1$c29tZXNhbHQ$c29tZWhhc2hzb21laGFzaHNvbWVoYXNo",
		Role:         model.RoleHospital,
		OrgName:      "General Hospital",
	})
	require.NoError(t, err)
	return account
}
