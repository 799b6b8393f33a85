package stores

import (
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*CodeLedger, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	ledger := NewCodeLedger(goqu.New("postgres", db))
	return ledger, mock, func() { db.Close() }
}

func codeColumns() []string {
	return []string{"verification_code_id", "email", "code", "expires_at", "consumed", "created_at"}
}

func TestCodeLedgerIssue(t *testing.T) {
	ledger, mock, cleanup := newTestLedger(t)
	defer cleanup()

	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return frozen }

	expiry := frozen.Add(DefaultCodeTTL)

	// sweep, then invalidation of the previous code for the address
	mock.ExpectExec(`DELETE FROM "verification_codes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "verification_codes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "verification_codes"`).
		WillReturnRows(sqlmock.NewRows(codeColumns()).
			AddRow(7, "ana@example.com", "314159", expiry, false, frozen))

	vc, err := ledger.Issue("ana@example.com", 0)
	require.NoError(t, err)
	require.NotNil(t, vc)

	assert.Equal(t, "ana@example.com", vc.Email)
	assert.Equal(t, "314159", vc.Code)
	assert.False(t, vc.Consumed)
	assert.Equal(t, expiry, vc.Expires_At.UTC())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeLedgerValidateExpiry(t *testing.T) {
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		rowExists bool
		wantValid bool
	}{
		{
			name:      "unexpired code is valid",
			expiresAt: frozen.Add(time.Minute),
			rowExists: true,
			wantValid: true,
		},
		{
			name:      "code invalid exactly at expiry instant",
			expiresAt: frozen,
			rowExists: true,
			wantValid: false,
		},
		{
			name:      "expired code is invalid",
			expiresAt: frozen.Add(-time.Second),
			rowExists: true,
			wantValid: false,
		},
		{
			name:      "no matching row",
			rowExists: false,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, mock, cleanup := newTestLedger(t)
			defer cleanup()
			ledger.now = func() time.Time { return frozen }

			rows := sqlmock.NewRows(codeColumns())
			if tt.rowExists {
				rows.AddRow(1, "ana@example.com", "123456", tt.expiresAt, false, frozen.Add(-time.Minute))
			}
			mock.ExpectQuery(`SELECT \* FROM "verification_codes"`).WillReturnRows(rows)

			vc, err := ledger.Validate("ana@example.com", "123456")
			require.NoError(t, err)

			if tt.wantValid {
				require.NotNil(t, vc)
				assert.Equal(t, "123456", vc.Code)
			} else {
				assert.Nil(t, vc)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCodeLedgerConsumeOnlyOnce(t *testing.T) {
	ledger, mock, cleanup := newTestLedger(t)
	defer cleanup()

	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return frozen }

	// First consume flips the flag and gets the row back.
	mock.ExpectQuery(`UPDATE "verification_codes"`).
		WillReturnRows(sqlmock.NewRows(codeColumns()).
			AddRow(1, "ana@example.com", "123456", frozen.Add(time.Minute), true, frozen.Add(-time.Minute)))
	// Second consume matches nothing: the conditional update saw
	// consumed = true.
	mock.ExpectQuery(`UPDATE "verification_codes"`).
		WillReturnRows(sqlmock.NewRows(codeColumns()))

	vc, err := ledger.Consume("ana@example.com", "123456")
	require.NoError(t, err)
	require.NotNil(t, vc)
	assert.True(t, vc.Consumed)

	again, err := ledger.Consume("ana@example.com", "123456")
	require.NoError(t, err)
	assert.Nil(t, again)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeLedgerSweep(t *testing.T) {
	ledger, mock, cleanup := newTestLedger(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM "verification_codes"`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := ledger.Sweep()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
