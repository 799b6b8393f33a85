package stores

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/CineVault/models"
)

// DeviceTokenStore keeps the FCM tokens of each account's devices.
type DeviceTokenStore struct {
	db *goqu.Database
}

func NewDeviceTokenStore(db *goqu.Database) *DeviceTokenStore {
	return &DeviceTokenStore{db: db}
}

// Upsert registers a device token, refreshing the platform and
// timestamp when the same token is posted again.
func (s *DeviceTokenStore) Upsert(accountID int, platform, token string) error {
	rec := models.DeviceToken{
		AccountID: accountID,
		Platform:  platform,
		PushToken: token,
	}
	_, err := s.db.Insert("device_tokens").
		Rows(rec).
		OnConflict(goqu.DoUpdate("account_id, push_token", goqu.Record{
			"platform":   platform,
			"updated_at": time.Now(),
		})).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

// ListByAccount returns every token registered for the account.
func (s *DeviceTokenStore) ListByAccount(accountID int) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := s.db.From("device_tokens").
		Where(goqu.C("account_id").Eq(accountID)).
		ScanStructs(&tokens)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	return tokens, nil
}

// Delete removes a token, typically after FCM reports it stale.
func (s *DeviceTokenStore) Delete(token string) error {
	_, err := s.db.Delete("device_tokens").
		Where(goqu.C("push_token").Eq(token)).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("delete device token: %w", err)
	}
	return nil
}
