package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/messaging"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/normalize"
)

var ErrInvalidInput = errors.New("invalid notification")

// Audience filters select who receives the push.
const (
	AudienceAll    = "all"
	AudienceKoala  = "koalafit"
	AudienceJaguar = "jaguarfit"
	AudienceHalcon = "halconfit"
)

// Sender is the direct FCM dependency; *messaging.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Service sends announcements to collaborator devices.
type Service struct {
	client      *backend.Client
	fcm         Sender
	topicPrefix string
}

// New builds the service. fcm may be nil, in which case every send is
// proxied through the core API.
func New(client *backend.Client, fcm Sender, topicPrefix string) *Service {
	if topicPrefix == "" {
		topicPrefix = "sanjerfit"
	}
	return &Service{client: client, fcm: fcm, topicPrefix: topicPrefix}
}

// Notification is one announcement targeted at an audience.
type Notification struct {
	Title    string
	Body     string
	Audience string
}

func (n Notification) validate() (Notification, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.Body = strings.TrimSpace(n.Body)
	if n.Title == "" || n.Body == "" {
		return n, fmt.Errorf("%w: title and body are required", ErrInvalidInput)
	}
	n.Audience = normalize.Pick(n.Audience, AudienceAll,
		AudienceAll, AudienceKoala, AudienceJaguar, AudienceHalcon)
	return n, nil
}

// Send pushes the notification. With Firebase configured the gateway
// publishes straight to the audience's topic; otherwise the core API does
// the delivery.
func (s *Service) Send(ctx context.Context, token string, n Notification) error {
	n, err := n.validate()
	if err != nil {
		return err
	}

	if s.fcm != nil {
		return s.sendDirect(ctx, n)
	}
	return s.sendProxied(ctx, token, n)
}

func (s *Service) sendDirect(ctx context.Context, n Notification) error {
	msg := &messaging.Message{
		Topic: s.Topic(n.Audience),
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
	}
	if _, err := s.fcm.Send(ctx, msg); err != nil {
		return fmt.Errorf("send fcm notification: %w", err)
	}
	return nil
}

func (s *Service) sendProxied(ctx context.Context, token string, n Notification) error {
	payload := map[string]string{
		"title":  n.Title,
		"body":   n.Body,
		"filter": n.Audience,
	}
	if err := s.client.PostJSON(ctx, token, "/webadmin/notifications/send", payload, nil); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// Topic maps an audience to its FCM topic name.
func (s *Service) Topic(audience string) string {
	return s.topicPrefix + "-" + audience
}
