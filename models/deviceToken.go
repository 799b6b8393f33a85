package models

import "time"

type DeviceToken struct {
	DeviceTokenID int       `json:"deviceTokenId" db:"device_token_id" goqu:"skipinsert"`
	AccountID     int       `json:"accountId" db:"account_id"`
	PushToken     string    `json:"pushToken" db:"push_token"`
	Platform      string    `json:"platform" db:"platform"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at" goqu:"skipinsert"`
}

type DeviceTokenRequest struct {
	PushToken string `json:"pushToken" binding:"required"`
	Platform  string `json:"platform" binding:"required,oneof=ios android"`
}
