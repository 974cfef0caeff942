package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	acthttp "github.com/sanjerfit/webadmin-gateway/internal/activities/http"
	httpapi "github.com/sanjerfit/webadmin-gateway/internal/api/http"
	authhttp "github.com/sanjerfit/webadmin-gateway/internal/auth/http"
	colhttp "github.com/sanjerfit/webadmin-gateway/internal/collaborators/http"
	infohttp "github.com/sanjerfit/webadmin-gateway/internal/generalinfo/http"
	"github.com/sanjerfit/webadmin-gateway/internal/middleware"
	"github.com/sanjerfit/webadmin-gateway/internal/notifications"
	premhttp "github.com/sanjerfit/webadmin-gateway/internal/premios/http"
	"github.com/sanjerfit/webadmin-gateway/internal/reports"
	secdomain "github.com/sanjerfit/webadmin-gateway/internal/security/domain"
	sechttp "github.com/sanjerfit/webadmin-gateway/internal/security/http"
	"github.com/sanjerfit/webadmin-gateway/internal/session"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Redis          *redis.Client
	Sessions       *session.Store
	Services       *Services

	// login throttle, per client IP
	LoginRate  rate.Limit
	LoginBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Session-Id", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	if dep.LoginRate <= 0 {
		dep.LoginRate = rate.Every(2 * time.Second)
	}
	if dep.LoginBurst <= 0 {
		dep.LoginBurst = 5
	}

	authHandler := authhttp.New(dep.Services.Auth)
	authHandler.RegisterPublic(api.Group("/auth"),
		middleware.LoginRateLimit(dep.LoginRate, dep.LoginBurst))

	protected := api.Group("")
	protected.Use(middleware.SessionAuth(dep.Sessions))

	authHandler.RegisterProtected(protected.Group("/auth"))

	// mutations require a writing role; Visualizador keeps read access
	writeGate := middleware.RequireWriteAccess()
	colhttp.New(dep.Services.Collaborators).Register(protected.Group("/collaborators", writeGate))
	acthttp.New(dep.Services.Activities).Register(protected.Group("/activities", writeGate))
	premhttp.New(dep.Services.Premios).Register(protected.Group("/premios", writeGate))
	infohttp.New(dep.Services.GeneralInfo).Register(protected.Group("/info", writeGate))
	notifications.NewHandler(dep.Services.Notifications).Register(protected.Group("/notifications", writeGate))
	reports.NewHandler(dep.Services.Reports, dep.Services.Collaborators).Register(protected.Group("/reports"))

	// account management is admin-only
	users := protected.Group("/users")
	users.Use(middleware.RequireRoles(string(secdomain.RoleAdministrador)))
	sechttp.New(dep.Services.Security).Register(users)

	return r
}
