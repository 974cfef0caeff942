package http

import "github.com/sanjerfit/webadmin-gateway/internal/security/service"

// Handler bundles the dependencies for admin account HTTP endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}
