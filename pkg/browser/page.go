// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Page binds a driver to a screen context. Locators created from a page
// report the page's screen name in their errors.
type Page struct {
	log    *zap.Logger
	driver Driver
	waits  Waits
	screen string
}

// NewPage creates a page on top of driver.
func NewPage(log *zap.Logger, driver Driver, waits Waits) *Page {
	return &Page{
		log:    log,
		driver: driver,
		waits:  waits.normalize(),
		screen: "page",
	}
}

// Screen returns a view of the page scoped to the named screen.
func (page *Page) Screen(name string) *Page {
	scoped := *page
	scoped.screen = name
	scoped.log = page.log.With(zap.String("screen", name))
	return &scoped
}

// ScreenName returns the name of the screen this page is scoped to.
func (page *Page) ScreenName() string { return page.screen }

// Driver returns the underlying driver.
func (page *Page) Driver() Driver { return page.driver }

// Waits returns the wait configuration.
func (page *Page) Waits() Waits { return page.waits }

// Log returns the page logger.
func (page *Page) Log() *zap.Logger { return page.log }

// Navigate loads url and returns once the navigation completed.
func (page *Page) Navigate(ctx context.Context, url string) (err error) {
	defer mon.Task()(&ctx)(&err)

	page.log.Debug("navigate", zap.String("url", url))

	ctx, cancel := context.WithTimeout(ctx, page.waits.ActionTimeout)
	defer cancel()

	if err := page.driver.Navigate(ctx, url); err != nil {
		return Error.Wrap(fmt.Errorf("navigate to %q on %q: %w", url, page.screen, err))
	}
	return nil
}

// URL returns the current document URL.
func (page *Page) URL(ctx context.Context) (string, error) {
	return page.driver.URL(ctx)
}

// WaitForTimeout sleeps for a fixed duration.
func (page *Page) WaitForTimeout(ctx context.Context, duration time.Duration) error {
	if duration > 0 {
		page.log.Debug("fixed wait", zap.Duration("duration", duration))
	}
	return Sleep(ctx, duration)
}

// Until polls check with the page's wait configuration.
func (page *Page) Until(ctx context.Context, timeout time.Duration, check func(ctx context.Context) (bool, error)) error {
	return page.waits.Until(ctx, timeout, check)
}

// Locate returns a locator for a CSS selector. It performs no I/O.
func (page *Page) Locate(selector string) *Locator {
	return page.locator(Query{Kind: KindCSS, Selector: selector}, Stable)
}

// ByID returns a locator for the element with the given id attribute. The
// id is escaped, so it may contain dynamic values such as bucket names.
func (page *Page) ByID(id string) *Locator {
	return page.Locate("#" + EscapeID(id))
}

// GetByRole returns a locator matching role and accessible name.
func (page *Page) GetByRole(role, name string) *Locator {
	return page.locator(Query{Kind: KindRole, Role: role, Name: name}, Stable)
}

// GetByPlaceholder returns a locator matching the placeholder text.
func (page *Page) GetByPlaceholder(text string) *Locator {
	return page.locator(Query{Kind: KindPlaceholder, Name: text}, Stable)
}

func (page *Page) locator(query Query, strategy Strategy) *Locator {
	return &Locator{
		page:     page,
		query:    query,
		nth:      -1,
		strategy: strategy,
	}
}
