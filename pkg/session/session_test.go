// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"
	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/pages"
	"storj.io/console-uitest/pkg/session"
	"storj.io/console-uitest/private/fakeconsole"
)

var (
	consoleConfig = pages.Config{
		URL:            "http://console.test",
		LoginPath:      "/login",
		BucketsPath:    "/buckets",
		ListingTimeout: time.Second,
	}
	testWaits = browser.Waits{
		ActionTimeout:   500 * time.Millisecond,
		PollInterval:    2 * time.Millisecond,
		MaxPollInterval: 20 * time.Millisecond,
	}
	creds = session.Credentials{AccessKey: "ak", SecretKey: "sk"}
)

func newBootstrap(t *testing.T, console *fakeconsole.Console, config session.Config, creds session.Credentials) *session.Bootstrap {
	return session.NewBootstrap(zaptest.NewLogger(t), config, consoleConfig, testWaits, creds,
		func(ctx context.Context) (browser.Driver, error) {
			return console.NewBrowser(), nil
		})
}

func TestBootstrapReuse(t *testing.T) {
	ctx := testcontext.New(t)

	console := fakeconsole.New(fakeconsole.Config{AccessKey: "ak", SecretKey: "sk", LoginDelay: 10 * time.Millisecond})
	config := session.Config{
		StatePath:    ctx.File("state", "storage-state.json"),
		LoginTimeout: time.Second,
		Reuse:        true,
	}

	first, err := newBootstrap(t, console, config, creds).Ensure(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, console.Logins())
	require.True(t, session.Exists(config.StatePath))

	second, err := newBootstrap(t, console, config, creds).Ensure(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, console.Logins(), "second bootstrap must reuse the stored state")
	require.Equal(t, first.State(), second.State())

	// direct navigation with the state applied skips the login form.
	driver := console.NewBrowser()
	defer ctx.Check(driver.Close)
	page := browser.NewPage(zaptest.NewLogger(t), driver, testWaits)
	require.NoError(t, session.Verify(ctx, page, consoleConfig, second, time.Second))

	url, err := page.URL(ctx)
	require.NoError(t, err)
	require.Equal(t, "http://console.test/buckets", url)
	require.Equal(t, 1, console.Logins())
}

func TestBootstrapRevoked(t *testing.T) {
	ctx := testcontext.New(t)

	console := fakeconsole.New(fakeconsole.Config{AccessKey: "ak", SecretKey: "sk"})
	config := session.Config{
		StatePath:    ctx.File("state", "storage-state.json"),
		LoginTimeout: 100 * time.Millisecond,
		Reuse:        true,
	}

	_, err := newBootstrap(t, console, config, creds).Ensure(ctx)
	require.NoError(t, err)

	console.RevokeSessions()

	_, err = newBootstrap(t, console, config, creds).Ensure(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, console.Logins())
}

func TestBootstrapInvalidCredentials(t *testing.T) {
	ctx := testcontext.New(t)

	console := fakeconsole.New(fakeconsole.Config{AccessKey: "ak", SecretKey: "sk"})
	config := session.Config{
		StatePath:    ctx.File("state", "storage-state.json"),
		LoginTimeout: 50 * time.Millisecond,
		Reuse:        true,
	}

	_, err := newBootstrap(t, console, config, session.Credentials{AccessKey: "ak", SecretKey: "nope"}).Ensure(ctx)
	require.Error(t, err)
	require.True(t, session.ErrSetup.Has(err))
	require.False(t, session.Exists(config.StatePath))
	require.Zero(t, console.Logins())

	_, err = newBootstrap(t, console, config, session.Credentials{}).Ensure(ctx)
	require.True(t, session.ErrSetup.Has(err))
	require.Contains(t, err.Error(), session.EnvAccessKey)
}

func TestCredentialsWithEnv(t *testing.T) {
	t.Setenv(session.EnvAccessKey, "env-ak")
	t.Setenv(session.EnvSecretKey, "env-sk")

	got := session.Credentials{AccessKey: "flag-ak"}.WithEnv()
	require.Equal(t, session.Credentials{AccessKey: "flag-ak", SecretKey: "env-sk"}, got)
	require.NoError(t, got.Validate())
}

func TestSaveLoad(t *testing.T) {
	ctx := testcontext.New(t)

	state := &browser.StorageState{
		Cookies: []browser.Cookie{{Name: "token", Value: "abc", Domain: "console.test", Path: "/", Expires: -1, HTTPOnly: true}},
		Origins: []browser.Origin{{Origin: "http://console.test", LocalStorage: []browser.NameValue{{Name: "userLoggedIn", Value: "true"}}}},
	}
	path := ctx.File("nested", "dir", "state.json")

	require.NoError(t, session.Save(path, session.New(state, time.Now())))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := session.Load(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(state, loaded.State()))

	require.NoError(t, os.WriteFile(path, []byte(`{"cookies":[],"origins":[]}`), 0600))
	_, err = session.Load(path)
	require.Error(t, err)

	_, err = session.Load(ctx.File("missing.json"))
	require.Error(t, err)
}

func TestSessionImmutable(t *testing.T) {
	state := &browser.StorageState{Cookies: []browser.Cookie{{Name: "token", Value: "abc"}}}
	s := session.New(state, time.Now())

	state.Cookies[0].Value = "changed"
	got := s.State()
	require.Equal(t, "abc", got.Cookies[0].Value)

	got.Cookies[0].Value = "changed"
	require.Equal(t, "abc", s.State().Cookies[0].Value)
}
