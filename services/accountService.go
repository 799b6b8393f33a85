package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/CineVault/models"
	"github.com/CineVault/stores"
)

var (
	// ErrDuplicateIdentity: the username or email already has an account.
	ErrDuplicateIdentity = errors.New("account already exists")
	// ErrInvalidCredentials: wrong username or password, deliberately
	// not saying which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOrExpiredCode: no active verification code matched.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	// ErrAccountNotFound: the account vanished mid-flow.
	ErrAccountNotFound = errors.New("account not found")
)

// CredentialStore is the slice of the account store this service needs.
type CredentialStore interface {
	Create(displayName, username, password, email string) (*models.Account, error)
	FindByCredentials(username, password string) (*models.Account, error)
	FindByContact(email string) (*models.Account, error)
	FindByID(id int) (*models.Account, error)
	UpdateSecret(email, newPassword string) (*models.Account, error)
}

// CodeLedger issues and spends single-use verification codes.
type CodeLedger interface {
	Issue(email string, ttl time.Duration) (*models.VerificationCode, error)
	Validate(email, code string) (*models.VerificationCode, error)
	Consume(email, code string) (*models.VerificationCode, error)
}

// CodeSender delivers a verification code to a contact address.
type CodeSender interface {
	SendVerificationCode(email, code, displayName string) error
}

// SecurityAlerter pushes best-effort notices to an account's devices.
type SecurityAlerter interface {
	SendSecurityAlert(accountID int, title, body string) error
}

// AccountService orchestrates registration, login and the two-step
// password recovery flow. It never touches verification code rows
// directly, only through the ledger.
type AccountService struct {
	creds   CredentialStore
	codes   CodeLedger
	emails  CodeSender
	alerts  SecurityAlerter
	codeTTL time.Duration
}

func NewAccountService(creds CredentialStore, codes CodeLedger, emails CodeSender, alerts SecurityAlerter) *AccountService {
	return &AccountService{
		creds:   creds,
		codes:   codes,
		emails:  emails,
		alerts:  alerts,
		codeTTL: stores.DefaultCodeTTL,
	}
}

func (s *AccountService) Register(displayName, username, password, email string) (*models.Account, error) {
	acct, err := s.creds.Create(displayName, username, password, email)
	if errors.Is(err, stores.ErrDuplicateIdentity) {
		return nil, ErrDuplicateIdentity
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *AccountService) Login(username, password string) (*models.Account, error) {
	acct, err := s.creds.FindByCredentials(username, password)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrInvalidCredentials
	}
	return acct, nil
}

// RequestPasswordReset issues a code and mails it. Unknown addresses
// return nil so the HTTP surface can answer uniformly and not reveal
// which emails are registered.
func (s *AccountService) RequestPasswordReset(email string) error {
	acct, err := s.creds.FindByContact(email)
	if err != nil {
		return err
	}
	if acct == nil {
		log.Printf("password reset requested for unknown address %q", email)
		return nil
	}

	vc, err := s.codes.Issue(acct.Email, s.codeTTL)
	if err != nil {
		return err
	}

	// A failed send fails the request. The orphaned code simply
	// expires unused; a retried request issues a fresh one.
	if err := s.emails.SendVerificationCode(acct.Email, vc.Code, acct.Display_Name); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// VerifyResetCode is the non-mutating "is this code still good" check.
func (s *AccountService) VerifyResetCode(email, code string) (bool, error) {
	vc, err := s.codes.Validate(email, code)
	if err != nil {
		return false, err
	}
	return vc != nil, nil
}

// CompletePasswordReset spends the code, then updates the secret.
// Consumption comes strictly first: if the update fails afterwards
// the code stays spent and the user must request a new one.
func (s *AccountService) CompletePasswordReset(email, code, newPassword string) (*models.Account, error) {
	vc, err := s.codes.Consume(email, code)
	if err != nil {
		return nil, err
	}
	if vc == nil {
		return nil, ErrInvalidOrExpiredCode
	}

	acct, err := s.creds.UpdateSecret(email, newPassword)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		if err := s.alerts.SendSecurityAlert(acct.Account_ID,
			"Contraseña actualizada",
			"La contraseña de tu cuenta fue cambiada. Si no fuiste tú, contáctanos."); err != nil {
			log.Printf("security alert for account %d: %v", acct.Account_ID, err)
		}
	}
	return acct, nil
}

// ChangePassword lets a logged-in user rotate their secret after
// proving they still know the current one.
func (s *AccountService) ChangePassword(accountID int, oldPassword, newPassword string) (*models.Account, error) {
	acct, err := s.creds.FindByID(accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(oldPassword)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.creds.UpdateSecret(acct.Email, newPassword)
}
