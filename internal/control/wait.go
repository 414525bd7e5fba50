package control

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timvw/dockpane/internal/host"
	"github.com/timvw/dockpane/internal/panel"
)

// ErrCloseTimeout is returned when closed panel windows are still present
// after the configured wait bound. A zero WaitTimeout disables the bound
// and polls indefinitely.
var ErrCloseTimeout = errors.New("timed out waiting for panel windows to close")

// defaultPollInterval is the pause between close-completion polls.
const defaultPollInterval = 50 * time.Millisecond

// Scheduler yields control between close-completion polls. The real
// implementation sleeps on the wall clock; tests inject an instant one so
// polling loops settle deterministically.
type Scheduler interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimeScheduler sleeps on the wall clock, honoring context cancellation.
type TimeScheduler struct{}

// Sleep implements Scheduler.
func (TimeScheduler) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// waitForClose polls the edge until none of the named panels has a live
// window. Close actions complete asynchronously in the host, sometimes
// across several scheduler turns, so the wait yields between polls instead
// of blocking.
func (c *Controller) waitForClose(ctx context.Context, edge host.Edge, names map[string]bool) error {
	if len(names) == 0 {
		return nil
	}

	start := time.Now()
	polls := 0
	for {
		live, err := c.Locator.FindAllAtEdge(ctx, edge)
		if err != nil {
			return err
		}
		pending := false
		for _, name := range live {
			if names[name] {
				pending = true
				break
			}
		}
		if !pending {
			break
		}

		if c.WaitTimeout > 0 && time.Since(start) > c.WaitTimeout {
			c.Metrics.RecordCloseWait(ctx, string(edge), polls, time.Since(start))
			return fmt.Errorf("%w: edge %s after %s", ErrCloseTimeout, edge, c.WaitTimeout)
		}
		if err := c.scheduler().Sleep(ctx, c.pollInterval()); err != nil {
			return err
		}
		polls++
	}

	c.Metrics.RecordCloseWait(ctx, string(edge), polls, time.Since(start))
	return nil
}

// waitForOpen polls until the panel's window resolves. Open actions can be
// as asynchronous as closes; the same bound applies.
func (c *Controller) waitForOpen(ctx context.Context, cfg *panel.Config) (host.WindowID, error) {
	start := time.Now()
	for {
		id, found, err := c.Locator.Resolve(ctx, cfg)
		if err != nil {
			return "", err
		}
		if found {
			return id, nil
		}
		if c.WaitTimeout > 0 && time.Since(start) > c.WaitTimeout {
			return "", fmt.Errorf("%w: panel %q never appeared after %s", ErrCloseTimeout, cfg.Name, c.WaitTimeout)
		}
		if err := c.scheduler().Sleep(ctx, c.pollInterval()); err != nil {
			return "", err
		}
	}
}

func (c *Controller) scheduler() Scheduler {
	if c.Scheduler != nil {
		return c.Scheduler
	}
	return TimeScheduler{}
}

func (c *Controller) pollInterval() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return defaultPollInterval
}
