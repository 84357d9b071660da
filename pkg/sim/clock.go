// pkg/sim/clock.go
package sim

import (
	"context"
	"time"

	"github.com/arvheim/boxsim/pkg/config"
)

// Clock abstracts the host frame-delivery mechanism. The only contract
// is "deliver the next frame callback, with a monotonically increasing
// timestamp, at the host's discretion"; no interval is guaranteed.
type Clock interface {
	// WaitFrame blocks until the host delivers the next frame and
	// returns its timestamp, measured from the clock's epoch.
	WaitFrame(ctx context.Context) (time.Duration, error)
}

// TickerClock delivers frames at a fixed wall-clock period. Its epoch is
// the first WaitFrame call, so timestamps start near zero and line up
// with the simulator's post-start baseline.
type TickerClock struct {
	period time.Duration
	ticker *time.Ticker
	epoch  time.Time
}

// NewTickerClock creates a clock that fires every period.
func NewTickerClock(period time.Duration) *TickerClock {
	if period <= 0 {
		period = config.DefaultFramePeriod
	}
	return &TickerClock{period: period}
}

// WaitFrame implements Clock.
func (c *TickerClock) WaitFrame(ctx context.Context) (time.Duration, error) {
	if c.ticker == nil {
		c.epoch = time.Now()
		c.ticker = time.NewTicker(c.period)
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case t := <-c.ticker.C:
		return t.Sub(c.epoch), nil
	}
}

// Stop releases the underlying ticker. The clock must not be reused
// afterward.
func (c *TickerClock) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
}
