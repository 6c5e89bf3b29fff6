package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when the poller sleeps.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func newFakePoller(interval, timeout time.Duration) (*Poller, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	p := New(interval, timeout)
	p.now = clock.Now
	p.sleep = clock.Sleep
	return p, clock
}

func TestUntilSucceedsWhenConditionHolds(t *testing.T) {
	p, _ := newFakePoller(500*time.Millisecond, 5*time.Minute)

	calls := 0
	err := p.Until(context.Background(), func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestUntilWaitsAFullIntervalBetweenChecks(t *testing.T) {
	p, clock := newFakePoller(500*time.Millisecond, 5*time.Minute)
	start := clock.Now()

	calls := 0
	err := p.Until(context.Background(), func(context.Context) (bool, error) {
		calls++
		return calls == 4, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3*500*time.Millisecond, clock.Now().Sub(start), "three sleeps separate four checks")
}

func TestUntilDeadline(t *testing.T) {
	p, clock := newFakePoller(500*time.Millisecond, time.Second)
	start := clock.Now()

	calls := 0
	err := p.Until(context.Background(), func(context.Context) (bool, error) {
		calls++
		return false, nil
	})

	assert.ErrorIs(t, err, ErrDeadline)
	assert.Equal(t, time.Second, clock.Now().Sub(start), "gives up at the deadline, not before")
	assert.Equal(t, 3, calls, "checks at 0ms, 500ms and 1000ms")
}

func TestUntilPropagatesConditionError(t *testing.T) {
	p, _ := newFakePoller(time.Millisecond, time.Second)
	boom := errors.New("boom")

	err := p.Until(context.Background(), func(context.Context) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestUntilHonorsContextCancellation(t *testing.T) {
	p, _ := newFakePoller(time.Millisecond, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := p.Until(ctx, func(context.Context) (bool, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
