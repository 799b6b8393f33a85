package stores

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/CineVault/models"
)

// DefaultCodeTTL is how long an issued verification code stays valid.
const DefaultCodeTTL = 10 * time.Minute

// CodeLedger owns all verification code records. Codes move from
// Active to exactly one of Consumed, Expired or Deleted, never back.
// There is no background reaper: Issue sweeps opportunistically and
// Validate/Consume check expiry against the clock on every call.
type CodeLedger struct {
	db  *goqu.Database
	now func() time.Time
}

func NewCodeLedger(db *goqu.Database) *CodeLedger {
	return &CodeLedger{db: db, now: time.Now}
}

// Issue creates a fresh code for the address. Any previous code for
// the same address is deleted first, so at most one active code ever
// exists per address.
func (l *CodeLedger) Issue(email string, ttl time.Duration) (*models.VerificationCode, error) {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	if _, err := l.Sweep(); err != nil {
		return nil, err
	}

	// Whatever survived the sweep for this address is still active.
	if _, err := l.db.Delete("verification_codes").
		Where(goqu.C("email").Eq(email)).
		Executor().
		Exec(); err != nil {
		return nil, fmt.Errorf("invalidate previous code: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	vc := &models.VerificationCode{
		Email:      email,
		Code:       code,
		Expires_At: l.now().Add(ttl),
		Consumed:   false,
	}

	found, err := l.db.Insert("verification_codes").
		Rows(vc).
		Returning(goqu.T("verification_codes").All()).
		Executor().
		ScanStruct(vc)
	if err != nil {
		return nil, fmt.Errorf("insert verification code: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("insert verification code: no row returned")
	}
	return vc, nil
}

// Validate reports whether an active code matches, without mutating
// anything. (nil, nil) means no match.
func (l *CodeLedger) Validate(email, code string) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	found, err := l.db.From("verification_codes").
		Select("*").
		Where(goqu.And(
			goqu.C("email").Eq(email),
			goqu.C("code").Eq(code),
			goqu.C("consumed").IsFalse(),
		)).
		ScanStruct(&vc)
	if err != nil {
		return nil, fmt.Errorf("lookup verification code: %w", err)
	}
	if !found || !vc.ActiveAt(l.now()) {
		return nil, nil
	}
	return &vc, nil
}

// Consume flips the consumed flag and returns the record, or
// (nil, nil) when no active code matches. The flip is a single
// conditional UPDATE, so of two concurrent calls for the same code
// only one can observe the unconsumed row.
func (l *CodeLedger) Consume(email, code string) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	found, err := l.db.Update("verification_codes").
		Set(goqu.Record{"consumed": true}).
		Where(goqu.And(
			goqu.C("email").Eq(email),
			goqu.C("code").Eq(code),
			goqu.C("consumed").IsFalse(),
			goqu.C("expires_at").Gt(l.now()),
		)).
		Returning(goqu.T("verification_codes").All()).
		Executor().
		ScanStruct(&vc)
	if err != nil {
		return nil, fmt.Errorf("consume verification code: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &vc, nil
}

// Sweep deletes every expired or already-consumed record and returns
// how many went away. Called at the start of Issue; correctness never
// depends on it because expiry is also checked at read time.
func (l *CodeLedger) Sweep() (int64, error) {
	res, err := l.db.Delete("verification_codes").
		Where(goqu.Or(
			goqu.C("consumed").IsTrue(),
			goqu.C("expires_at").Lte(l.now()),
		)).
		Executor().
		Exec()
	if err != nil {
		return 0, fmt.Errorf("sweep verification codes: %w", err)
	}
	return res.RowsAffected()
}

// generateCode draws uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
