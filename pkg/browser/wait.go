// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"context"
	"time"

	"storj.io/common/sync2"
)

// Waits configures the synchronization budget of pages and locators.
type Waits struct {
	ActionTimeout   time.Duration `help:"how long an interaction polls for its target before failing" default:"10s" testDefault:"2s"`
	PollInterval    time.Duration `help:"initial interval between polls" default:"50ms" testDefault:"5ms"`
	MaxPollInterval time.Duration `help:"upper bound for the exponential poll backoff" default:"1s" testDefault:"50ms"`
}

// DefaultWaits returns the release defaults.
func DefaultWaits() Waits {
	return Waits{
		ActionTimeout:   10 * time.Second,
		PollInterval:    50 * time.Millisecond,
		MaxPollInterval: time.Second,
	}
}

// normalize fills zero values with defaults.
func (waits Waits) normalize() Waits {
	defaults := DefaultWaits()
	if waits.ActionTimeout <= 0 {
		waits.ActionTimeout = defaults.ActionTimeout
	}
	if waits.PollInterval <= 0 {
		waits.PollInterval = defaults.PollInterval
	}
	if waits.MaxPollInterval < waits.PollInterval {
		waits.MaxPollInterval = waits.PollInterval
	}
	return waits
}

// Until calls check until it reports done, returns an error, the timeout
// elapses or ctx is canceled. Polls back off exponentially from
// PollInterval to MaxPollInterval. A zero timeout uses ActionTimeout.
func (waits Waits) Until(ctx context.Context, timeout time.Duration, check func(ctx context.Context) (bool, error)) (err error) {
	defer mon.Task()(&ctx)(&err)

	waits = waits.normalize()
	if timeout <= 0 {
		timeout = waits.ActionTimeout
	}

	start := time.Now()
	interval := waits.PollInterval
	for {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		remaining := timeout - time.Since(start)
		if remaining <= 0 {
			return ErrTimeout.New("condition not met after %s", timeout)
		}
		if interval > remaining {
			interval = remaining
		}
		if !sync2.Sleep(ctx, interval) {
			return ctx.Err()
		}

		interval *= 2
		if interval > waits.MaxPollInterval {
			interval = waits.MaxPollInterval
		}
	}
}

// Sleep waits for a fixed duration. It exists to bridge known gaps where no
// observable signal is available; prefer Until.
func Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	if !sync2.Sleep(ctx, duration) {
		return ctx.Err()
	}
	return nil
}
