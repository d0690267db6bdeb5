// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSessionPurge removes expired admin sessions every hour.
func (s *AdminService) StartSessionPurge(ctx context.Context) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			n, err := s.PurgeExpiredSessions(ctx)
			if err != nil {
				log.Printf("[Scheduler] session purge failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("🧹 [Scheduler] purged %d expired admin session(s)", n)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
