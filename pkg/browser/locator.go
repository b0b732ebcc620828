// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Strategy tags how reliable a locator is.
type Strategy int

const (
	// Stable locators are keyed by ids, roles or placeholders.
	Stable Strategy = iota
	// BestEffort locators address elements by structural position and break
	// on layout changes.
	BestEffort
)

// String implements fmt.Stringer.
func (strategy Strategy) String() string {
	switch strategy {
	case Stable:
		return "stable"
	case BestEffort:
		return "best-effort"
	default:
		return fmt.Sprintf("Strategy(%d)", int(strategy))
	}
}

// Locator is a lazily evaluated query bound to a page. It never caches
// element handles: every interaction resolves the query again.
type Locator struct {
	page     *Page
	query    Query
	nth      int
	strategy Strategy
}

// Query returns the query of the locator.
func (loc *Locator) Query() Query { return loc.query }

// Strategy returns whether the locator is stable or best-effort.
func (loc *Locator) Strategy() Strategy { return loc.strategy }

// String implements fmt.Stringer.
func (loc *Locator) String() string {
	if loc.nth >= 0 {
		return fmt.Sprintf("%s >> nth=%d", loc.query, loc.nth)
	}
	return loc.query.String()
}

// Nth returns a best-effort locator for the index-th match.
func (loc *Locator) Nth(index int) *Locator {
	nth := *loc
	nth.nth = index
	nth.strategy = BestEffort
	return &nth
}

// Count returns the number of matching elements without waiting. Zero
// matches is not an error.
func (loc *Locator) Count(ctx context.Context) (_ int, err error) {
	defer mon.Task()(&ctx)(&err)

	elements, err := loc.page.driver.Query(ctx, loc.query)
	if err != nil {
		return 0, Error.Wrap(err)
	}
	if loc.nth >= 0 {
		if len(elements) > loc.nth {
			return 1, nil
		}
		return 0, nil
	}
	return len(elements), nil
}

// Click clicks the first match, polling until it exists.
func (loc *Locator) Click(ctx context.Context) error {
	return loc.do(ctx, "click", func(ctx context.Context, el Element) error {
		return el.Click(ctx)
	})
}

// Fill replaces the value of the first match with text.
func (loc *Locator) Fill(ctx context.Context, text string) error {
	return loc.do(ctx, "fill", func(ctx context.Context, el Element) error {
		return el.Fill(ctx, text)
	})
}

// Text returns the text content of the first match.
func (loc *Locator) Text(ctx context.Context) (text string, err error) {
	err = loc.do(ctx, "text", func(ctx context.Context, el Element) error {
		text, err = el.Text(ctx)
		return err
	})
	return text, err
}

// WaitFor waits until at least one element matches.
func (loc *Locator) WaitFor(ctx context.Context) error {
	return loc.do(ctx, "wait for", func(ctx context.Context, el Element) error {
		return nil
	})
}

// WaitCount waits until exactly want elements match. A zero timeout uses the
// configured action timeout.
func (loc *Locator) WaitCount(ctx context.Context, want int, timeout time.Duration) (err error) {
	defer mon.Task()(&ctx)(&err)

	got := -1
	err = loc.page.waits.Until(ctx, timeout, func(ctx context.Context) (bool, error) {
		count, err := loc.Count(ctx)
		if err != nil {
			return false, err
		}
		got = count
		return count == want, nil
	})
	if ErrTimeout.Has(err) {
		return ErrTimeout.New("%s on %q: got %d matches, want %d", loc, loc.page.screen, got, want)
	}
	return err
}

// do runs fn against the resolved element, retrying until it succeeds or
// the action timeout elapses. Only errors that mean the element was not
// ready are retried.
func (loc *Locator) do(ctx context.Context, action string, fn func(ctx context.Context, el Element) error) (err error) {
	defer mon.Task()(&ctx)(&err)

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, loc.page.waits.ActionTimeout)
	defer cancel()

	start := time.Now()
	var last error
	err = loc.page.waits.Until(ctx, loc.page.waits.ActionTimeout, func(ctx context.Context) (bool, error) {
		elements, err := loc.page.driver.Query(ctx, loc.query)
		if err != nil {
			last = err
			return false, nil
		}

		index := 0
		if loc.nth >= 0 {
			index = loc.nth
		}
		if len(elements) <= index {
			return false, nil
		}

		if err := fn(ctx, elements[index]); err != nil {
			if !retryable(err) {
				return false, err
			}
			last = err
			return false, nil
		}
		return true, nil
	})
	if err == nil {
		return nil
	}
	if parent.Err() != nil {
		return parent.Err()
	}
	if ErrTimeout.Has(err) || errors.Is(err, context.DeadlineExceeded) {
		return loc.NotFound(action, time.Since(start), last)
	}
	return err
}

// NotFound returns a target-not-found error for an action on loc.
func (loc *Locator) NotFound(action string, waited time.Duration, cause error) error {
	loc.page.log.Debug("target not found",
		zap.String("action", action),
		zap.Stringer("locator", loc),
		zap.Stringer("strategy", loc.strategy),
		zap.NamedError("last", cause))
	return ErrTargetNotFound.Wrap(&TargetError{
		Screen: loc.page.screen,
		Action: action,
		Query:  loc.String(),
		Waited: waited,
		Cause:  cause,
	})
}
