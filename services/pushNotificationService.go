package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/CineVault/models"
	"github.com/CineVault/stores"
)

// PushNotificationService sends security alerts to an account's
// registered devices over FCM. Delivery is best-effort; the reset
// flow never fails because a push did not land.
type PushNotificationService struct {
	fcmClient *messaging.Client
	devices   *stores.DeviceTokenStore
}

// NewPushNotificationService initializes the Firebase Admin SDK, with
// a service account file when FIREBASE_SERVICE_ACCOUNT_PATH is set and
// Application Default Credentials otherwise.
func NewPushNotificationService(ctx context.Context, devices *stores.DeviceTokenStore) (*PushNotificationService, error) {
	var opts []option.ClientOption
	if path := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	return &PushNotificationService{fcmClient: client, devices: devices}, nil
}

// SendSecurityAlert pushes the alert to every device of the account.
// Safe on a nil service so callers can wire it optionally.
func (s *PushNotificationService) SendSecurityAlert(accountID int, title, body string) error {
	if s == nil || s.fcmClient == nil {
		return nil
	}

	tokens, err := s.devices.ListByAccount(accountID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	for _, token := range tokens {
		if err := s.sendToDevice(token, title, body); err != nil {
			log.Printf("push to device %s of account %d: %v", token.PushToken, accountID, err)
			if messaging.IsUnregistered(err) {
				if delErr := s.devices.Delete(token.PushToken); delErr != nil {
					log.Printf("drop stale device token: %v", delErr)
				}
			}
		}
	}
	return nil
}

func (s *PushNotificationService) sendToDevice(token models.DeviceToken, title, body string) error {
	message := &messaging.Message{
		Token: token.PushToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	if token.Platform == "ios" {
		message.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		}
	} else {
		message.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Title: title,
				Body:  body,
				Sound: "default",
			},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.fcmClient.Send(ctx, message)
	return err
}
