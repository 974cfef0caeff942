// Package notifications pushes announcements to collaborators. The send goes
// to FCM topics directly when Firebase credentials are configured and is
// proxied through the core API otherwise.
package notifications

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/sanjerfit/webadmin-gateway/config"
)

// InitializeMessaging initializes the Firebase Admin SDK and returns a
// Messaging client.
func InitializeMessaging(cfg *config.FirebaseConfig) (*messaging.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get Messaging client: %w", err)
	}

	return client, nil
}
