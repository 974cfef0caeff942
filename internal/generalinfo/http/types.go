package http

import "github.com/sanjerfit/webadmin-gateway/internal/generalinfo/service"

// Handler bundles the dependencies for info board HTTP endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}
