package controllers

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/CineVault/models"
	"golang.org/x/crypto/bcrypt"
)

// Test fixture data for use in tests

func accountColumns() []string {
	return []string{"account_id", "display_name", "username", "password_hash", "email", "created_at", "updated_at"}
}

func codeColumns() []string {
	return []string{"verification_code_id", "email", "code", "expires_at", "consumed", "created_at"}
}

// MockAccount creates a sample account for testing.
func MockAccount() models.Account {
	return models.Account{
		Account_ID:   1,
		Display_Name: "Ana García",
		Username:     "anag",
		Email:        "ana@example.com",
		Created_At:   time.Now(),
		Updated_At:   time.Now(),
	}
}

// hashedPassword returns a bcrypt hash for use in mocked rows.
// Password is "password123" - use this in tests.
func hashedPassword() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	return string(hash)
}

// mockAccountRows builds a one-row result set for the accounts table.
func mockAccountRows(passwordHash string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountColumns()).
		AddRow(1, "Ana García", "anag", passwordHash, "ana@example.com", now, now)
}

// mockCodeRows builds a one-row result set for verification_codes.
func mockCodeRows(code string, expiresAt time.Time, consumed bool) *sqlmock.Rows {
	return sqlmock.NewRows(codeColumns()).
		AddRow(1, "ana@example.com", code, expiresAt, consumed, time.Now())
}
