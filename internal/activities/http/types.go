package http

import "github.com/sanjerfit/webadmin-gateway/internal/activities/service"

// Handler bundles the dependencies for activity HTTP endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}
