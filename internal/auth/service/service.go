package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	secdomain "github.com/sanjerfit/webadmin-gateway/internal/security/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/session"
)

// Service exchanges admin credentials for a console session. The upstream
// bearer token is stored in Redis next to the normalized identity; the
// console only ever sees the opaque session ID.
type Service struct {
	client   *backend.Client
	sessions *session.Store
	onLogout []func(sessionID string)
}

func New(client *backend.Client, sessions *session.Store, onLogout ...func(sessionID string)) *Service {
	return &Service{client: client, sessions: sessions, onLogout: onLogout}
}

// Login authenticates against the core API and mints a session.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	res, err := s.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return session.Session{}, fmt.Errorf("login: %w", err)
	}

	sess, err := s.sessions.Create(ctx, res.Token, identityFrom(res.User))
	if err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Logout invalidates the token upstream, drops the session and releases the
// session's list views. The upstream call is best-effort: a dead backend
// must not keep an admin logged in.
func (s *Service) Logout(ctx context.Context, sessionID, token string) {
	_ = s.client.Logout(ctx, token)
	_ = s.sessions.Destroy(ctx, sessionID)
	for _, drop := range s.onLogout {
		drop(sessionID)
	}
}

type apiUser struct {
	Nombre string `json:"nombre"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Role   string `json:"role"`
}

// identityFrom normalizes the login response's user object. The role goes
// through the same folding as the account list so an accented or mistyped
// value cannot grant write access.
func identityFrom(raw json.RawMessage) session.Identity {
	var u apiUser
	_ = json.Unmarshal(raw, &u)

	name := u.Nombre
	if name == "" {
		name = u.Name
	}
	role := u.Rol
	if role == "" {
		role = u.Role
	}

	return session.Identity{
		Name:  name,
		Email: u.Email,
		Role:  string(secdomain.ParseRole(role)),
	}
}
