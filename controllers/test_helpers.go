package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/CineVault/models"
	"github.com/CineVault/services"
	"github.com/CineVault/stores"
)

// capturingSender stands in for the Resend-backed email service and
// records every code it was asked to deliver.
type capturingSender struct {
	mu      sync.Mutex
	sendErr error
	sent    []string
}

func (s *capturingSender) SendVerificationCode(email, code, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, code)
	return nil
}

// setupTestController wires a controller over real stores backed by
// sqlmock, the closest thing to the production object graph that a
// unit test can hold.
func setupTestController(t *testing.T) (*AccountController, *capturingSender, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	gdb := goqu.New("postgres", db)
	creds := stores.NewCredentialStore(gdb)
	codes := stores.NewCodeLedger(gdb)
	devices := stores.NewDeviceTokenStore(gdb)

	sender := &capturingSender{}
	accounts := services.NewAccountService(creds, codes, sender, nil)

	cleanup := func() { db.Close() }
	return NewAccountController(accounts, devices), sender, mock, cleanup
}

// SetupTestContext creates a test Gin context with a response recorder.
func SetupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// SetAuthenticatedAccount simulates what CheckAuth does.
func SetAuthenticatedAccount(c *gin.Context, acct models.Account) {
	c.Set("currentAccount", acct)
}

// postJSON attaches a JSON body request to the context. Strings pass
// through raw so tests can send malformed payloads.
func postJSON(c *gin.Context, path string, body interface{}) {
	var data []byte
	if raw, ok := body.(string); ok {
		data = []byte(raw)
	} else {
		data, _ = json.Marshal(body)
	}

	c.Request = httptest.NewRequest("POST", path, bytes.NewBuffer(data))
	c.Request.Header.Set("Content-Type", "application/json")
}
