// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package rodbrowser

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"storj.io/console-uitest/pkg/browser"
)

// queryJS resolves a browser.Query inside the document. Role and
// placeholder names match case-insensitively on whitespace normalized text.
const queryJS = `(kind, selector, name) => {
	const norm = s => (s || "").replace(/\s+/g, " ").trim().toLowerCase();
	const want = norm(name);
	const label = el => el.getAttribute("aria-label") || el.innerText || el.textContent || el.value || "";
	let nodes = Array.from(document.querySelectorAll(selector));
	if (kind === "role") {
		nodes = nodes.filter(el => norm(label(el)).includes(want));
	} else if (kind === "placeholder") {
		nodes = nodes.filter(el => norm(el.getAttribute("placeholder")).includes(want));
	}
	return nodes;
}`

const localStorageJS = `() => JSON.stringify({
	origin: location.origin,
	items: Object.keys(localStorage).map(name => ({name, value: localStorage.getItem(name)})),
})`

// Driver is a single page in an incognito browser context.
type Driver struct {
	log     *zap.Logger
	browser *rod.Browser
	page    *rod.Page
}

var _ browser.Driver = (*Driver)(nil)

// Page returns the underlying rod page.
func (driver *Driver) Page() *rod.Page { return driver.page }

// Navigate implements browser.Driver.
func (driver *Driver) Navigate(ctx context.Context, url string) (err error) {
	defer mon.Task()(&ctx)(&err)

	page := driver.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(page.WaitLoad())
}

// URL implements browser.Driver.
func (driver *Driver) URL(ctx context.Context) (string, error) {
	info, err := driver.page.Context(ctx).Info()
	if err != nil {
		return "", Error.Wrap(err)
	}
	return info.URL, nil
}

// Query implements browser.Driver.
func (driver *Driver) Query(ctx context.Context, query browser.Query) (_ []browser.Element, err error) {
	defer mon.Task()(&ctx)(&err)

	selector := query.Selector
	switch query.Kind {
	case browser.KindCSS:
	case browser.KindRole:
		selector = browser.RoleSelector(query.Role)
	case browser.KindPlaceholder:
		selector = "[placeholder]"
	default:
		return nil, Error.New("unsupported query kind %q", query.Kind)
	}

	found, err := driver.page.Context(ctx).ElementsByJS(rod.Eval(queryJS, string(query.Kind), selector, query.Name))
	if err != nil {
		return nil, convertError(err)
	}

	elements := make([]browser.Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &element{el: el})
	}
	return elements, nil
}

// StorageState implements browser.Driver. Local storage is captured for the
// origin of the current document.
func (driver *Driver) StorageState(ctx context.Context) (_ *browser.StorageState, err error) {
	defer mon.Task()(&ctx)(&err)

	cookies, err := driver.browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, Error.Wrap(err)
	}

	state := &browser.StorageState{
		Cookies: []browser.Cookie{},
		Origins: []browser.Origin{},
	}
	for _, cookie := range cookies {
		state.Cookies = append(state.Cookies, browser.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Domain:   cookie.Domain,
			Path:     cookie.Path,
			Expires:  float64(cookie.Expires),
			HTTPOnly: cookie.HTTPOnly,
			Secure:   cookie.Secure,
			SameSite: string(cookie.SameSite),
		})
	}

	res, err := driver.page.Context(ctx).Eval(localStorageJS)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	var local struct {
		Origin string              `json:"origin"`
		Items  []browser.NameValue `json:"items"`
	}
	if err := json.Unmarshal([]byte(res.Value.Str()), &local); err != nil {
		return nil, Error.Wrap(err)
	}
	if local.Origin != "" && local.Origin != "null" && len(local.Items) > 0 {
		state.Origins = append(state.Origins, browser.Origin{
			Origin:       local.Origin,
			LocalStorage: local.Items,
		})
	}
	return state, nil
}

// SetStorageState implements browser.Driver. Local storage entries are
// installed before any script of a matching origin runs.
func (driver *Driver) SetStorageState(ctx context.Context, state *browser.StorageState) (err error) {
	defer mon.Task()(&ctx)(&err)

	if state == nil {
		return nil
	}

	params := make([]*proto.NetworkCookieParam, 0, len(state.Cookies))
	for _, cookie := range state.Cookies {
		param := &proto.NetworkCookieParam{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Domain:   cookie.Domain,
			Path:     cookie.Path,
			Secure:   cookie.Secure,
			HTTPOnly: cookie.HTTPOnly,
			SameSite: proto.NetworkCookieSameSite(cookie.SameSite),
		}
		if cookie.Expires > 0 {
			param.Expires = proto.TimeSinceEpoch(cookie.Expires)
		}
		params = append(params, param)
	}
	if len(params) > 0 {
		if err := driver.browser.Context(ctx).SetCookies(params); err != nil {
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
		if _, err := driver.page.Context(ctx).EvalOnNewDocument(script); err != nil {
			return Error.Wrap(err)
		}
	}
	return nil
}

// Close implements browser.Driver.
func (driver *Driver) Close() error {
	return Error.Wrap(driver.browser.Close())
}

type element struct {
	el *rod.Element
}

// Click implements browser.Element.
func (e *element) Click(ctx context.Context) error {
	return convertError(e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1))
}

// Fill implements browser.Element.
func (e *element) Fill(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return convertError(err)
	}
	return convertError(el.Input(text))
}

// Text implements browser.Element.
func (e *element) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	return text, convertError(err)
}

// convertError maps detached node errors to browser.ErrStale and input
// that cannot land yet to browser.ErrNotInteractable.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, &rod.ObjectNotFoundError{}) || errors.Is(err, cdp.ErrCtxNotFound) {
		return browser.ErrStale.Wrap(err)
	}
	if errors.Is(err, &rod.CoveredError{}) || errors.Is(err, &rod.InvisibleShapeError{}) ||
		errors.Is(err, &rod.NotInteractableError{}) || errors.Is(err, &rod.NoPointerEventsError{}) {
		return browser.ErrNotInteractable.Wrap(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return Error.Wrap(err)
}
