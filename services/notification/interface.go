package notification

import (
	"context"
	"fmt"

	userRepo "plantco/database/repository/user"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Notifier delivers push messages to users. Callers treat delivery as
// fire-and-forget.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) error
}

// Sender is the part of the FCM messaging client the notifier needs.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier looks up the user's FCM token and sends through Firebase.
type FCMNotifier struct {
	users  userRepo.UserRepository
	sender Sender
	logger *zap.Logger
}

func NewFCMNotifier(users userRepo.UserRepository, sender Sender, logger *zap.Logger) (*FCMNotifier, error) {
	if users == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository or sender is nil")
	}
	return &FCMNotifier{users: users, sender: sender, logger: logger}, nil
}

// NewMessagingClient builds an FCM client from a service account file.
func NewMessagingClient(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting messaging client: %w", err)
	}
	return client, nil
}

func (n *FCMNotifier) NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("NotifyUser: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		n.logger.Debug("user has no FCM token", zap.String("userId", userID))
		return nil
	}

	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = string(u.Role)
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyUser: failed to send FCM message: %w", err)
	}
	n.logger.Debug("push sent", zap.String("userId", userID), zap.String("messageId", id))
	return nil
}

// LogNotifier only logs. Used when Firebase is not configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) NotifyUser(_ context.Context, userID, title, body string, data map[string]string) error {
	n.Logger.Info("notification",
		zap.String("userId", userID),
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("data", data))
	return nil
}
