package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sanjerfit/webadmin-gateway/config"
	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/bootstrap"
	"github.com/sanjerfit/webadmin-gateway/internal/notifications"
	"github.com/sanjerfit/webadmin-gateway/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	var fcm notifications.Sender
	if cfg.Firebase.CredentialsPath != "" {
		client, err := notifications.InitializeMessaging(&cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		fcm = client
		log.Println("firebase messaging enabled")
	} else {
		log.Println("firebase messaging disabled, notifications proxied upstream")
	}

	sessions := session.NewStore(rdb, cfg.Redis.SessionTTL)
	services := bootstrap.NewServices(bootstrap.ServiceDeps{
		Backend:     backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout),
		Sessions:    sessions,
		Redis:       rdb,
		FCM:         fcm,
		TopicPrefix: cfg.Firebase.TopicPrefix,
	})

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "sanjerfit-webadmin-gateway",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Redis:          rdb,
		Sessions:       sessions,
		Services:       services,
	})

	jobs := bootstrap.StartCron(services, bootstrap.CronOptions{
		ServiceToken: cfg.Backend.ServiceToken,
	})
	defer jobs.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s (env=%s)", cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
