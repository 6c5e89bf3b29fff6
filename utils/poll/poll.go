// Package poll implements a wait/retry loop bounded by a wall-clock
// deadline. The login flow polls browser state with it; there is no
// push signal from the controlled browser.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrDeadline is returned when the condition did not hold before the
// timeout elapsed.
var ErrDeadline = errors.New("deadline reached before condition was met")

// Poller repeatedly evaluates a condition at a fixed interval.
type Poller struct {
	Interval time.Duration
	Timeout  time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

func New(interval, timeout time.Duration) *Poller {
	return &Poller{
		Interval: interval,
		Timeout:  timeout,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Until evaluates fn every Interval until it reports done, it returns
// an error, the context is cancelled, or Timeout elapses. The loop
// always sleeps between evaluations, never spins.
func (p *Poller) Until(ctx context.Context, fn func(context.Context) (bool, error)) error {
	deadline := p.now().Add(p.Timeout)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if !p.now().Before(deadline) {
			return ErrDeadline
		}
		p.sleep(p.Interval)
	}
}
