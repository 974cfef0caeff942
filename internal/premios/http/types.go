package http

import "github.com/sanjerfit/webadmin-gateway/internal/premios/service"

// Handler bundles the dependencies for premio HTTP endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}
