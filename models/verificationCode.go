package models

import "time"

// VerificationCode is a single-use, time-boxed 6-digit code tied to a
// contact address. At most one active code exists per address; the
// ledger enforces that by deleting prior codes on issue.
type VerificationCode struct {
	Code_ID    int       `json:"codeId" db:"verification_code_id" goqu:"skipinsert"`
	Email      string    `json:"correo" db:"email"`
	Code       string    `json:"-" db:"code"`
	Expires_At time.Time `json:"expiresAt" db:"expires_at"`
	Consumed   bool      `json:"consumed" db:"consumed"`
	Created_At time.Time `json:"createdAt" db:"created_at" goqu:"skipinsert"`
}

// ActiveAt reports whether the code is still consumable at the given
// instant. Expiry is enforced here lazily, independent of sweeps.
func (v *VerificationCode) ActiveAt(now time.Time) bool {
	return !v.Consumed && now.Before(v.Expires_At)
}
