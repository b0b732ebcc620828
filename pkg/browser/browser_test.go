// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"
	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/private/fakeconsole"
)

const origin = "http://console.test"

var testWaits = browser.Waits{
	ActionTimeout:   200 * time.Millisecond,
	PollInterval:    2 * time.Millisecond,
	MaxPollInterval: 20 * time.Millisecond,
}

func loggedIn(t *testing.T, ctx *testcontext.Context, console *fakeconsole.Console) *browser.Page {
	b := console.NewBrowser()
	t.Cleanup(func() { _ = b.Close() })

	page := browser.NewPage(zaptest.NewLogger(t), b, testWaits)
	require.NoError(t, page.Navigate(ctx, origin+"/login"))
	require.NoError(t, page.GetByPlaceholder("username").Fill(ctx, "ak"))
	require.NoError(t, page.GetByPlaceholder("Password").Fill(ctx, "sk"))
	require.NoError(t, page.GetByRole("button", "login").Click(ctx))
	return page
}

func TestLocateDoesNotFailOnZeroMatches(t *testing.T) {
	ctx := testcontext.New(t)

	console := fakeconsole.New(fakeconsole.Config{AccessKey: "ak", SecretKey: "sk"})
	page := loggedIn(t, ctx, console)

	loc := page.ByID("manageBucket-missing")
	count, err := loc.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	start := time.Now()
	err = loc.Click(ctx)
	require.Error(t, err)
	require.True(t, browser.ErrTargetNotFound.Has(err))
	require.True(t, browser.IsTargetNotFound(err))
	require.GreaterOrEqual(t, time.Since(start), testWaits.ActionTimeout/2)

	target, ok := browser.AsTargetError(err)
	require.True(t, ok)
	require.Equal(t, "click", target.Action)
	require.Contains(t, target.Query, "manageBucket-missing")
}

func TestLocatorWaitsForLateElement(t *testing.T) {
	ctx := testcontext.New(t)

	console := fakeconsole.New(fakeconsole.Config{
		AccessKey:  "ak",
		SecretKey:  "sk",
		ModalDelay: 50 * time.Millisecond,
	})
	console.Seed("alpha")
	page := loggedIn(t, ctx, console)

	require.NoError(t, page.ByID("manageBucket-alpha").Click(ctx))
	require.NoError(t, page.ByID("delete-bucket-button").Click(ctx))
	require.NoError(t, page.ByID("confirm-ok").Click(ctx))

	exists, err := console.BucketExists(ctx, "alpha")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLocatorCanceled(t *testing.T) {
	ctx := testcontext.New(t)

	console := fakeconsole.New(fakeconsole.Config{AccessKey: "ak", SecretKey: "sk"})
	page := loggedIn(t, ctx, console)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	err := page.ByID("missing").Click(canceled)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, browser.IsTargetNotFound(err))
}

func TestNthLocator(t *testing.T) {
	ctx := testcontext.New(t)

	console := fakeconsole.New(fakeconsole.Config{AccessKey: "ak", SecretKey: "sk"})
	console.Seed("alpha", "beta")
	page := loggedIn(t, ctx, console)

	rows := page.Locate(".bucket-row")
	require.Equal(t, browser.Stable, rows.Strategy())
	count, err := rows.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	second := rows.Nth(1)
	require.Equal(t, browser.BestEffort, second.Strategy())
	require.Equal(t, ".bucket-row >> nth=1", second.String())
	text, err := second.Text(ctx)
	require.NoError(t, err)
	require.Equal(t, "beta", text)

	count, err = rows.Nth(5).Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, rows.WaitCount(ctx, 2, 0))
	err = rows.WaitCount(ctx, 3, 20*time.Millisecond)
	require.True(t, browser.ErrTimeout.Has(err))
}

func TestWaitsUntil(t *testing.T) {
	ctx := testcontext.New(t)

	calls := 0
	err := testWaits.Until(ctx, time.Second, func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	err = testWaits.Until(ctx, 10*time.Millisecond, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	require.True(t, browser.ErrTimeout.Has(err))

	failure := errors.New("failure")
	err = testWaits.Until(ctx, time.Second, func(ctx context.Context) (bool, error) {
		return false, failure
	})
	require.ErrorIs(t, err, failure)
}

func TestEscapeID(t *testing.T) {
	for _, tc := range []struct{ in, out string }{
		{"create-bucket", "create-bucket"},
		{"manageBucket-e2e-test-bucket-1", "manageBucket-e2e-test-bucket-1"},
		{"1bucket", `\31 bucket`},
		{"-1", `-\31 `},
		{"-", `\-`},
		{"a.b", `a\.b`},
		{"a b:c", `a\ b\:c`},
	} {
		require.Equal(t, tc.out, browser.EscapeID(tc.in), tc.in)
	}
}

func TestMatchText(t *testing.T) {
	require.True(t, browser.MatchText("Create  Bucket", "create bucket"))
	require.True(t, browser.MatchText("Non-Current Version", "Current Version"))
	require.True(t, browser.MatchText("anything", ""))
	require.False(t, browser.MatchText("Login", "Logout"))
}

func TestRegistry(t *testing.T) {
	console := fakeconsole.New(fakeconsole.Config{})
	page := browser.NewPage(zaptest.NewLogger(t), console.NewBrowser(), testWaits).Screen("buckets")

	registry := browser.NewRegistry(page)
	create := registry.ID("create", "create-bucket")
	refresh := registry.Role("refresh", "button", "Refresh")
	version := registry.Structural("version", "#object_version-select div", 0)
	require.NoError(t, registry.Err())

	require.Equal(t, browser.Stable, create.Strategy())
	require.Equal(t, browser.Stable, refresh.Strategy())
	require.Equal(t, browser.BestEffort, version.Strategy())
	require.Equal(t, []string{"create", "refresh", "version"}, registry.Names())

	loc, ok := registry.Get("create")
	require.True(t, ok)
	require.Same(t, create, loc)

	broken := browser.NewRegistry(page)
	require.NotNil(t, broken.ID("empty", ""))
	require.NotNil(t, broken.CSS("invalid", "div[[["))
	require.NotNil(t, broken.Placeholder("dup", "Name"))
	require.NotNil(t, broken.Placeholder("dup", "Other"))
	err := broken.Err()
	require.Error(t, err)
	require.True(t, browser.ErrRegistry.Has(err))
	require.Contains(t, err.Error(), "duplicate")
}

func TestStorageState(t *testing.T) {
	var empty *browser.StorageState
	require.True(t, empty.Empty())

	state := &browser.StorageState{
		Cookies: []browser.Cookie{{Name: "token", Value: "abc"}},
		Origins: []browser.Origin{{Origin: origin, LocalStorage: []browser.NameValue{{Name: "k", Value: "v"}}}},
	}
	require.False(t, state.Empty())

	clone := state.Clone()
	clone.Origins[0].LocalStorage[0].Value = "changed"
	require.Equal(t, "v", state.Origins[0].LocalStorage[0].Value)

	cookie, ok := clone.Cookie("token")
	require.True(t, ok)
	require.Equal(t, "abc", cookie.Value)
}

func TestOriginInitScript(t *testing.T) {
	script, err := browser.Origin{
		Origin:       origin,
		LocalStorage: []browser.NameValue{{Name: "userLoggedIn", Value: "true"}},
	}.InitScript()
	require.NoError(t, err)
	require.Equal(t,
		`if (location.origin === "http://console.test") { for (const item of [{"name":"userLoggedIn","value":"true"}]) { localStorage.setItem(item.name, item.value); } }`,
		script)
}

type scriptedDriver struct {
	browser.Driver
	element *scriptedElement
}

func (driver *scriptedDriver) Query(ctx context.Context, query browser.Query) ([]browser.Element, error) {
	return []browser.Element{driver.element}, nil
}

type scriptedElement struct {
	browser.Element
	clicks int
	errs   []error
}

func (el *scriptedElement) Click(ctx context.Context) error {
	el.clicks++
	if len(el.errs) == 0 {
		return nil
	}
	err := el.errs[0]
	el.errs = el.errs[1:]
	return err
}

func TestLocatorRetriesOnlyNotReady(t *testing.T) {
	ctx := testcontext.New(t)

	el := &scriptedElement{errs: []error{
		browser.ErrStale.New("detached"),
		browser.ErrNotInteractable.New("covered"),
	}}
	page := browser.NewPage(zaptest.NewLogger(t), &scriptedDriver{element: el}, testWaits)
	require.NoError(t, page.Locate("#button").Click(ctx))
	require.Equal(t, 3, el.clicks)

	failure := errors.New("click rejected")
	el = &scriptedElement{errs: []error{failure}}
	page = browser.NewPage(zaptest.NewLogger(t), &scriptedDriver{element: el}, testWaits)
	err := page.Locate("#button").Click(ctx)
	require.ErrorIs(t, err, failure)
	require.False(t, browser.IsTargetNotFound(err))
	require.Equal(t, 1, el.clicks)
}
