package notification

import (
	"context"
	"errors"
	"fmt"

	"mayhouse/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrNoToken marks a recipient without a registered device; the push is skipped, not retried.
var ErrNoToken = errors.New("recipient has no FCM token")

// Sender is the subset of the FCM client used here.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService sends push notifications.
type NotificationService interface {
	Push(ctx context.Context, n models.Notification) error
}

// DefaultNotificationService is the FCM implementation.
type DefaultNotificationService struct {
	client Sender
	logger *zap.Logger
}

func NewDefaultNotificationService(client Sender, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{client: client, logger: logger}
}

// Push sends n to the user's device.
func (s *DefaultNotificationService) Push(ctx context.Context, n models.Notification) error {
	if n.Token == "" {
		return fmt.Errorf("push to user %s: %w", n.UserID, ErrNoToken)
	}
	if s.client == nil {
		s.logger.Warn("FCM not configured, dropping push", zap.String("userID", n.UserID), zap.String("type", n.Type))
		return nil
	}

	data := map[string]string{"type": n.Type}
	for k, v := range n.Data {
		data[k] = v
	}

	msg := &messaging.Message{
		Token: n.Token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
		},
	}

	response, err := s.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	s.logger.Info("Push sent", zap.String("userID", n.UserID), zap.String("type", n.Type), zap.String("messageID", response))
	return nil
}
