package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type CronOptions struct {
	// ServiceToken authorizes the stats refresh against the core API; an
	// empty token disables the refresh job.
	ServiceToken string

	// ViewMaxIdle is how long an admin session's list views may sit
	// untouched before eviction.
	ViewMaxIdle time.Duration
}

// StartCron schedules the background jobs: a periodic dashboard-stats
// refresh so the cache stays warm, and the idle view sweep. The returned
// cron is already running.
func StartCron(services *Services, opt CronOptions) *cron.Cron {
	if opt.ViewMaxIdle <= 0 {
		opt.ViewMaxIdle = 2 * time.Hour
	}

	c := cron.New()

	if opt.ServiceToken != "" {
		_, _ = c.AddFunc("@every 5m", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := services.Reports.Refresh(ctx, opt.ServiceToken); err != nil {
				log.Printf("[cron] stats refresh failed: %v", err)
			}
		})
	}

	_, _ = c.AddFunc("@every 30m", func() {
		if n := services.EvictIdleViews(opt.ViewMaxIdle); n > 0 {
			log.Printf("[cron] evicted %d idle session views", n)
		}
	})

	c.Start()
	return c
}
