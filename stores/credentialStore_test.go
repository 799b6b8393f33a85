package stores

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestCredentialStore(t *testing.T) (*CredentialStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	store := NewCredentialStore(goqu.New("postgres", db))
	return store, mock, func() { db.Close() }
}

func accountColumns() []string {
	return []string{"account_id", "display_name", "username", "password_hash", "email", "created_at", "updated_at"}
}

func accountRow(hash string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountColumns()).
		AddRow(1, "Ana García", "anag", hash, "ana@example.com", now, now)
}

func TestCredentialStoreCreate(t *testing.T) {
	t.Run("inserts and returns the new account", func(t *testing.T) {
		store, mock, cleanup := newTestCredentialStore(t)
		defer cleanup()

		mock.ExpectQuery(`INSERT INTO "accounts"`).
			WillReturnRows(accountRow("$2a$10$som+stored+hash"))

		acct, err := store.Create("Ana García", "anag", "password123", "ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, acct)

		assert.Equal(t, 1, acct.Account_ID)
		assert.Equal(t, "anag", acct.Username)
		assert.Equal(t, "ana@example.com", acct.Email)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateIdentity", func(t *testing.T) {
		store, mock, cleanup := newTestCredentialStore(t)
		defer cleanup()

		mock.ExpectQuery(`INSERT INTO "accounts"`).
			WillReturnError(&pq.Error{Code: "23505"})

		acct, err := store.Create("Ana García", "anag", "password123", "ana@example.com")
		assert.Nil(t, acct)
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})
}

func TestCredentialStoreFindByCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	tests := []struct {
		name      string
		password  string
		rowExists bool
		wantMatch bool
	}{
		{
			name:      "correct credentials",
			password:  "password123",
			rowExists: true,
			wantMatch: true,
		},
		{
			name:      "wrong password",
			password:  "nottherightone",
			rowExists: true,
			wantMatch: false,
		},
		{
			name:      "unknown username",
			password:  "password123",
			rowExists: false,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := newTestCredentialStore(t)
			defer cleanup()

			rows := sqlmock.NewRows(accountColumns())
			if tt.rowExists {
				now := time.Now()
				rows.AddRow(1, "Ana García", "anag", string(hash), "ana@example.com", now, now)
			}
			mock.ExpectQuery(`SELECT \* FROM "accounts"`).WillReturnRows(rows)

			acct, err := store.FindByCredentials("anag", tt.password)

			// Wrong password and unknown username are identical from
			// the caller's point of view: (nil, nil).
			require.NoError(t, err)
			if tt.wantMatch {
				require.NotNil(t, acct)
				assert.Equal(t, "anag", acct.Username)
			} else {
				assert.Nil(t, acct)
			}
		})
	}
}

func TestCredentialStoreFindByContact(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock, cleanup := newTestCredentialStore(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT \* FROM "accounts"`).
			WillReturnRows(accountRow("hash"))

		acct, err := store.FindByContact("ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, "ana@example.com", acct.Email)
	})

	t.Run("absent", func(t *testing.T) {
		store, mock, cleanup := newTestCredentialStore(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT \* FROM "accounts"`).
			WillReturnRows(sqlmock.NewRows(accountColumns()))

		acct, err := store.FindByContact("nadie@example.com")
		require.NoError(t, err)
		assert.Nil(t, acct)
	})
}

func TestCredentialStoreUpdateSecret(t *testing.T) {
	t.Run("rehashes and returns the account", func(t *testing.T) {
		store, mock, cleanup := newTestCredentialStore(t)
		defer cleanup()

		mock.ExpectQuery(`UPDATE "accounts"`).
			WillReturnRows(accountRow("new-hash"))

		acct, err := store.UpdateSecret("ana@example.com", "newpass123")
		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, "ana@example.com", acct.Email)
	})

	t.Run("unknown email is ErrNotFound", func(t *testing.T) {
		store, mock, cleanup := newTestCredentialStore(t)
		defer cleanup()

		mock.ExpectQuery(`UPDATE "accounts"`).
			WillReturnRows(sqlmock.NewRows(accountColumns()))

		acct, err := store.UpdateSecret("nadie@example.com", "newpass123")
		assert.Nil(t, acct)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
