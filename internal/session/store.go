// Package session keeps each logged-in admin's bearer token and identity in
// Redis. The console only ever holds the opaque session ID; the upstream
// token never leaves the gateway.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "webadmin:session:" // webadmin:session:{session_id}

var ErrNotFound = errors.New("session not found")

// Identity is the admin the session belongs to, as normalized at login.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session pairs the console-facing ID with the upstream bearer token.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      Identity  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Store handles Redis operations for admin sessions.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Create mints a new session for a fresh login.
func (s *Store) Create(ctx context.Context, token string, user Identity) (Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		Token:     token,
		User:      user,
		CreatedAt: time.Now(),
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("failed to store session: %w", err)
	}
	return sess, nil
}

// Get resolves a session ID and slides its expiry so active admins stay
// logged in.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}

	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Sliding expiry; a failed refresh is not fatal for this request.
	_ = s.client.Expire(ctx, s.key(id), s.ttl).Err()

	return sess, nil
}

// Destroy drops the session, e.g. on logout or after an upstream 401.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Store) key(id string) string {
	return sessionKeyPrefix + id
}
