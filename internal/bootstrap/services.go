package bootstrap

import (
	"time"

	"github.com/redis/go-redis/v9"

	actsvc "github.com/sanjerfit/webadmin-gateway/internal/activities/service"
	authsvc "github.com/sanjerfit/webadmin-gateway/internal/auth/service"
	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	colsvc "github.com/sanjerfit/webadmin-gateway/internal/collaborators/service"
	infosvc "github.com/sanjerfit/webadmin-gateway/internal/generalinfo/service"
	"github.com/sanjerfit/webadmin-gateway/internal/notifications"
	premsvc "github.com/sanjerfit/webadmin-gateway/internal/premios/service"
	"github.com/sanjerfit/webadmin-gateway/internal/reports"
	secsvc "github.com/sanjerfit/webadmin-gateway/internal/security/service"
	"github.com/sanjerfit/webadmin-gateway/internal/session"
)

// Services wires every bounded context onto the shared backend client.
type Services struct {
	Auth          *authsvc.Service
	Collaborators *colsvc.Service
	Activities    *actsvc.Service
	Premios       *premsvc.Service
	GeneralInfo   *infosvc.Service
	Security      *secsvc.Service
	Notifications *notifications.Service
	Reports       *reports.Service
}

type ServiceDeps struct {
	Backend     *backend.Client
	Sessions    *session.Store
	Redis       *redis.Client
	FCM         notifications.Sender // nil means proxy sends upstream
	TopicPrefix string
	StatsTTL    time.Duration
}

func NewServices(dep ServiceDeps) *Services {
	collaborators := colsvc.New(dep.Backend)
	activities := actsvc.New(dep.Backend)
	premios := premsvc.New(dep.Backend)
	generalInfo := infosvc.New(dep.Backend)
	security := secsvc.New(dep.Backend)

	// logout releases every context's per-session view
	auth := authsvc.New(dep.Backend, dep.Sessions,
		collaborators.DropSession,
		activities.DropSession,
		premios.DropSession,
		generalInfo.DropSession,
		security.DropSession,
	)

	return &Services{
		Auth:          auth,
		Collaborators: collaborators,
		Activities:    activities,
		Premios:       premios,
		GeneralInfo:   generalInfo,
		Security:      security,
		Notifications: notifications.New(dep.Backend, dep.FCM, dep.TopicPrefix),
		Reports:       reports.New(dep.Backend, dep.Redis, dep.StatsTTL),
	}
}

// EvictIdleViews drops per-session views untouched for maxIdle across every
// context and reports the total.
func (s *Services) EvictIdleViews(maxIdle time.Duration) int {
	n := s.Collaborators.EvictIdle(maxIdle)
	n += s.Activities.EvictIdle(maxIdle)
	n += s.Premios.EvictIdle(maxIdle)
	n += s.GeneralInfo.EvictIdle(maxIdle)
	n += s.Security.EvictIdle(maxIdle)
	return n
}
