// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package pwbrowser implements browser.Driver on top of playwright-go.
package pwbrowser

import (
	"context"
	"errors"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/console-uitest/pkg/browser"
)

var (
	mon = monkit.Package()

	// Error is the playwright driver error class.
	Error = errs.Class("playwright")
)

// Config configures the playwright browser.
type Config struct {
	Headless   bool          `help:"run the browser without a window" default:"true"`
	SlowMotion time.Duration `help:"delay inserted before every browser input" default:"0s"`
	Install    bool          `help:"install the playwright driver and chromium before launching" default:"false"`
}

// Launcher owns a playwright instance and a chromium browser.
type Launcher struct {
	log     *zap.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Launch starts playwright and chromium.
func Launch(ctx context.Context, log *zap.Logger, config Config) (_ *Launcher, err error) {
	defer mon.Task()(&ctx)(&err)

	if config.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, Error.Wrap(err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, Error.Wrap(err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(config.Headless),
		SlowMo:   playwright.Float(float64(config.SlowMotion.Milliseconds())),
	})
	if err != nil {
		return nil, errs.Combine(Error.Wrap(err), pw.Stop())
	}
	return &Launcher{log: log, pw: pw, browser: b}, nil
}

// NewDriver creates a new browser context with isolated cookies and storage.
func (l *Launcher) NewDriver(ctx context.Context) (_ *Driver, err error) {
	defer mon.Task()(&ctx)(&err)

	bctx, err := l.browser.NewContext()
	if err != nil {
		return nil, Error.Wrap(err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		return nil, errs.Combine(Error.Wrap(err), bctx.Close())
	}
	return &Driver{log: l.log.Named("driver"), context: bctx, page: page}, nil
}

// Close releases all playwright resources.
func (l *Launcher) Close() error {
	return Error.Wrap(errs.Combine(l.browser.Close(), l.pw.Stop()))
}

// Driver is a single page in a playwright browser context.
type Driver struct {
	log     *zap.Logger
	context playwright.BrowserContext
	page    playwright.Page
}

var _ browser.Driver = (*Driver)(nil)

// Navigate implements browser.Driver.
func (driver *Driver) Navigate(ctx context.Context, url string) (err error) {
	defer mon.Task()(&ctx)(&err)

	_, err = driver.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   timeout(ctx),
	})
	return convertError(err)
}

// URL implements browser.Driver.
func (driver *Driver) URL(ctx context.Context) (string, error) {
	return driver.page.URL(), nil
}

// Query implements browser.Driver.
func (driver *Driver) Query(ctx context.Context, query browser.Query) (_ []browser.Element, err error) {
	defer mon.Task()(&ctx)(&err)

	var loc playwright.Locator
	switch query.Kind {
	case browser.KindCSS:
		loc = driver.page.Locator(query.Selector)
	case browser.KindRole:
		var options []playwright.PageGetByRoleOptions
		if query.Name != "" {
			options = append(options, playwright.PageGetByRoleOptions{Name: query.Name})
		}
		loc = driver.page.GetByRole(playwright.AriaRole(query.Role), options...)
	case browser.KindPlaceholder:
		loc = driver.page.GetByPlaceholder(query.Name)
	default:
		return nil, Error.New("unsupported query kind %q", query.Kind)
	}

	all, err := loc.All()
	if err != nil {
		return nil, convertError(err)
	}
	elements := make([]browser.Element, 0, len(all))
	for _, match := range all {
		elements = append(elements, &element{loc: match})
	}
	return elements, nil
}

// StorageState implements browser.Driver.
func (driver *Driver) StorageState(ctx context.Context) (_ *browser.StorageState, err error) {
	defer mon.Task()(&ctx)(&err)

	raw, err := driver.context.StorageState()
	if err != nil {
		return nil, Error.Wrap(err)
	}

	state := &browser.StorageState{
		Cookies: []browser.Cookie{},
		Origins: []browser.Origin{},
	}
	for _, cookie := range raw.Cookies {
		converted := browser.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Domain:   cookie.Domain,
			Path:     cookie.Path,
			Expires:  cookie.Expires,
			HTTPOnly: cookie.HttpOnly,
			Secure:   cookie.Secure,
		}
		if cookie.SameSite != nil {
			converted.SameSite = string(*cookie.SameSite)
		}
		state.Cookies = append(state.Cookies, converted)
	}
	for _, origin := range raw.Origins {
		converted := browser.Origin{Origin: origin.Origin}
		for _, item := range origin.LocalStorage {
			converted.LocalStorage = append(converted.LocalStorage, browser.NameValue{Name: item.Name, Value: item.Value})
		}
		state.Origins = append(state.Origins, converted)
	}
	return state, nil
}

// SetStorageState implements browser.Driver.
func (driver *Driver) SetStorageState(ctx context.Context, state *browser.StorageState) (err error) {
	defer mon.Task()(&ctx)(&err)

	if state == nil {
		return nil
	}

	cookies := make([]playwright.OptionalCookie, 0, len(state.Cookies))
	for _, cookie := range state.Cookies {
		optional := playwright.OptionalCookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Domain:   playwright.String(cookie.Domain),
			Path:     playwright.String(cookie.Path),
			Expires:  playwright.Float(cookie.Expires),
			HttpOnly: playwright.Bool(cookie.HTTPOnly),
			Secure:   playwright.Bool(cookie.Secure),
		}
		if cookie.SameSite != "" {
			sameSite := playwright.SameSiteAttribute(cookie.SameSite)
			optional.SameSite = &sameSite
		}
		cookies = append(cookies, optional)
	}
	if len(cookies) > 0 {
		if err := driver.context.AddCookies(cookies); err != nil {
			return Error.Wrap(err)
		}
	}

	for _, origin := range state.Origins {
		if len(origin.LocalStorage) == 0 {
			continue
		}
		script, err := origin.InitScript()
		if err != nil {
			return err
		}
		if err := driver.context.AddInitScript(playwright.Script{Content: &script}); err != nil {
			return Error.Wrap(err)
		}
	}
	return nil
}

// Close implements browser.Driver.
func (driver *Driver) Close() error {
	return Error.Wrap(driver.context.Close())
}

type element struct {
	loc playwright.Locator
}

// Click implements browser.Element.
func (e *element) Click(ctx context.Context) error {
	return convertError(e.loc.Click(playwright.LocatorClickOptions{Timeout: timeout(ctx)}))
}

// Fill implements browser.Element.
func (e *element) Fill(ctx context.Context, text string) error {
	return convertError(e.loc.Fill(text, playwright.LocatorFillOptions{Timeout: timeout(ctx)}))
}

// Text implements browser.Element.
func (e *element) Text(ctx context.Context) (string, error) {
	text, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: timeout(ctx)})
	return text, convertError(err)
}

// timeout converts the context deadline into a playwright timeout in
// milliseconds. Without a deadline playwright uses its own default.
func timeout(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	remaining := time.Until(deadline)
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	return playwright.Float(float64(remaining.Milliseconds()))
}

// convertError maps playwright timeouts on a resolved locator to
// browser.ErrStale, since the element went away between query and action.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return browser.ErrStale.Wrap(err)
	}
	return Error.Wrap(err)
}
