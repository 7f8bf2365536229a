package hub

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Reaper periodically asks the hub to close idle sessions. It only ever
// talks to the hub through its inbox.
type Reaper struct {
	s   gocron.Scheduler
	hub *Hub
	ttl time.Duration
	log *zap.Logger
}

func NewReaper(h *Hub, interval, ttl time.Duration) (*Reaper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	r := &Reaper{s: s, hub: h, ttl: ttl, log: h.log.Named("reaper")}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.tick),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to schedule idle reaper: %w", err)
	}
	return r, nil
}

func (r *Reaper) Start() {
	r.log.Info("idle reaper started", zap.Duration("ttl", r.ttl))
	r.s.Start()
}

func (r *Reaper) Stop() error {
	return r.s.Shutdown()
}

func (r *Reaper) tick() {
	select {
	case r.hub.inbox <- ReapIdle{TTL: r.ttl}:
	case <-r.hub.done:
	default:
		r.log.Warn("hub inbox full, skipping reap")
	}
}
