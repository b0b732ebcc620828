// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pwbrowser_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"
	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/browser/pwbrowser"
	"storj.io/console-uitest/pkg/pages"
	"storj.io/console-uitest/pkg/session"
)

const loginPage = `<!DOCTYPE html>
<html><body>
<form method="post" action="/login" onsubmit="localStorage.setItem('userLoggedIn', 'true')">
<input name="username" placeholder="Username">
<input name="password" type="password" placeholder="Password">
<button type="submit">Login</button>
</form>
</body></html>`

const bucketsPage = `<!DOCTYPE html>
<html><head><script>
if (localStorage.getItem('userLoggedIn') !== 'true') { location.replace('/login'); }
</script></head><body>
<button id="create-bucket">Create Bucket</button>
<button id="refresh-buckets">Refresh</button>
</body></html>`

// newConsole serves a login form that sets an http-only cookie plus a
// local storage flag, and a bucket list that requires both.
func newConsole(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if r.FormValue("username") == "ak" && r.FormValue("password") == "sk" {
				http.SetCookie(w, &http.Cookie{Name: "token", Value: "secret", Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
				http.Redirect(w, r, "/buckets", http.StatusSeeOther)
				return
			}
		}
		_, _ = fmt.Fprint(w, loginPage)
	})
	mux.HandleFunc("/buckets", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value != "secret" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		_, _ = fmt.Fprint(w, bucketsPage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestStorageStateReuse(t *testing.T) {
	if os.Getenv("STORJ_TEST_PLAYWRIGHT") == "" {
		t.Skip("STORJ_TEST_PLAYWRIGHT is not set")
	}

	ctx := testcontext.New(t)
	log := zaptest.NewLogger(t)
	server := newConsole(t)

	console := pages.Config{
		URL:            server.URL,
		LoginPath:      "/login",
		BucketsPath:    "/buckets",
		ListingTimeout: 5 * time.Second,
	}
	waits := browser.Waits{ActionTimeout: 10 * time.Second, PollInterval: 50 * time.Millisecond, MaxPollInterval: 500 * time.Millisecond}

	launcher, err := pwbrowser.Launch(ctx, log, pwbrowser.Config{
		Headless: os.Getenv("STORJ_TEST_SHOW_BROWSER") == "",
		Install:  os.Getenv("STORJ_TEST_PLAYWRIGHT") == "install",
	})
	require.NoError(t, err)
	defer ctx.Check(launcher.Close)

	first, err := launcher.NewDriver(ctx)
	require.NoError(t, err)
	defer ctx.Check(first.Close)

	sess, err := session.Authenticate(ctx, browser.NewPage(log, first, waits), console,
		session.Credentials{AccessKey: "ak", SecretKey: "sk"}, session.Config{LoginTimeout: 10 * time.Second})
	require.NoError(t, err)

	state := sess.State()
	cookie, ok := state.Cookie("token")
	require.True(t, ok)
	require.True(t, cookie.HTTPOnly)
	require.Len(t, state.Origins, 1)
	require.Equal(t, []browser.NameValue{{Name: "userLoggedIn", Value: "true"}}, state.Origins[0].LocalStorage)

	second, err := launcher.NewDriver(ctx)
	require.NoError(t, err)
	defer ctx.Check(second.Close)
	require.NoError(t, session.Verify(ctx, browser.NewPage(log, second, waits), console, sess, 10*time.Second))

	anonymous, err := launcher.NewDriver(ctx)
	require.NoError(t, err)
	defer ctx.Check(anonymous.Close)
	err = session.Verify(ctx, browser.NewPage(log, anonymous, waits), console, session.New(&browser.StorageState{}, time.Now()), 2*time.Second)
	require.Error(t, err)
}
