package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Poller re-runs a fetch on a fixed interval while enabled. There is no
// backoff and no pause-on-error: a failing endpoint is retried every
// tick and each failure surfaces the same slice banner.
type Poller struct {
	interval time.Duration
	run      func(ctx context.Context) error
	logger   zerolog.Logger

	mu      sync.Mutex
	c       *cron.Cron
	running bool
}

func New(interval time.Duration, run func(ctx context.Context) error, logger zerolog.Logger) *Poller {
	return &Poller{
		interval: interval,
		run:      run,
		logger:   logger,
	}
}

func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.interval)
		defer cancel()
		if err := p.run(ctx); err != nil {
			p.logger.Warn().Err(err).Msg("auto-refresh tick failed, retrying next interval")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule auto-refresh: %w", err)
	}

	c.Start()
	p.c = c
	p.running = true
	p.logger.Info().Dur("interval", p.interval).Msg("auto-refresh started")
	return nil
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.c.Stop()
	p.c = nil
	p.running = false
	p.logger.Info().Msg("auto-refresh stopped")
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
