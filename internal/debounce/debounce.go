package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Controller defers a filter-triggered fetch until the filter has been
// stable for the configured delay. Every change resets the timer, so a
// burst of keystrokes produces exactly one fetch, parameterized with the
// filter as of the last change.
//
// When the timer fires, the previous in-flight fetch's context is
// cancelled first: a superseded request is aborted, not merely out-raced.
type Controller[F any] struct {
	delay  time.Duration
	fetch  func(ctx context.Context, filter F)
	logger zerolog.Logger

	mu     sync.Mutex
	latest F
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

func New[F any](delay time.Duration, fetch func(ctx context.Context, filter F), logger zerolog.Logger) *Controller[F] {
	return &Controller[F]{
		delay:  delay,
		fetch:  fetch,
		logger: logger,
	}
}

// Set records the new filter state and restarts the debounce window.
func (c *Controller[F]) Set(filter F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.latest = filter
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, c.fire)
}

// Flush fires the pending fetch immediately, if any.
func (c *Controller[F]) Flush() {
	c.mu.Lock()
	pending := c.timer != nil && c.timer.Stop()
	c.mu.Unlock()
	if pending {
		c.fire()
	}
}

func (c *Controller[F]) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	filter := c.latest
	c.mu.Unlock()

	go c.fetch(ctx, filter)
}

// Close stops the pending timer and aborts any in-flight fetch. The
// controller is unusable afterwards.
func (c *Controller[F]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
