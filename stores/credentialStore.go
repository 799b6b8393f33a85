package stores

import (
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/CineVault/models"
)

var (
	// ErrDuplicateIdentity means the username or email is already taken.
	ErrDuplicateIdentity = errors.New("username or email already registered")
	// ErrNotFound means no account matched the given contact address.
	ErrNotFound = errors.New("account not found")
)

// CredentialStore persists accounts. Passwords are bcrypt-hashed on
// the way in and never leave the store in cleartext.
type CredentialStore struct {
	db *goqu.Database
}

func NewCredentialStore(db *goqu.Database) *CredentialStore {
	return &CredentialStore{db: db}
}

// Create inserts a new account. Uniqueness of username and email is
// enforced by the database; violations map to ErrDuplicateIdentity so
// two concurrent signups cannot both win.
func (s *CredentialStore) Create(displayName, username, password, email string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &models.Account{
		Display_Name: displayName,
		Username:     username,
		Password:     string(hash),
		Email:        email,
	}

	found, err := s.db.Insert("accounts").
		Rows(acct).
		Returning(goqu.T("accounts").All()).
		Executor().
		ScanStruct(acct)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("insert account: no row returned")
	}
	return acct, nil
}

// FindByCredentials looks up by username and verifies the password
// against the stored hash. An unknown username and a wrong password
// both come back as (nil, nil) so callers cannot enumerate usernames.
func (s *CredentialStore) FindByCredentials(username, password string) (*models.Account, error) {
	var acct models.Account
	found, err := s.db.From("accounts").
		Select("*").
		Where(goqu.C("username").Eq(username)).
		ScanStruct(&acct)
	if err != nil {
		return nil, fmt.Errorf("lookup account by username: %w", err)
	}
	if !found {
		return nil, nil
	}

	// bcrypt comparison is constant-time.
	if bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(password)) != nil {
		return nil, nil
	}
	return &acct, nil
}

// FindByContact returns the account owning the email, or (nil, nil).
func (s *CredentialStore) FindByContact(email string) (*models.Account, error) {
	var acct models.Account
	found, err := s.db.From("accounts").
		Select("*").
		Where(goqu.C("email").Eq(email)).
		ScanStruct(&acct)
	if err != nil {
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &acct, nil
}

// FindByID returns the account with the given id, or (nil, nil).
func (s *CredentialStore) FindByID(id int) (*models.Account, error) {
	var acct models.Account
	found, err := s.db.From("accounts").
		Select("*").
		Where(goqu.C("account_id").Eq(id)).
		ScanStruct(&acct)
	if err != nil {
		return nil, fmt.Errorf("lookup account by id: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &acct, nil
}

// UpdateSecret re-hashes and overwrites the password for the account
// with the given email. Returns ErrNotFound when no account matches.
func (s *CredentialStore) UpdateSecret(email, newPassword string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var acct models.Account
	found, err := s.db.Update("accounts").
		Set(goqu.Record{
			"password_hash": string(hash),
			"updated_at":    time.Now(),
		}).
		Where(goqu.C("email").Eq(email)).
		Returning(goqu.T("accounts").All()).
		Executor().
		ScanStruct(&acct)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &acct, nil
}
