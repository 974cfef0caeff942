package http

import "github.com/sanjerfit/webadmin-gateway/internal/collaborators/service"

// Handler bundles the dependencies for collaborator HTTP endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}
