// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package uitest runs console UI tests against a live console in a real
// browser. Tests are skipped unless STORJ_TEST_CONSOLE_URL is set;
// STORJ_TEST_BROWSER_KIND selects rod (default) or playwright.
package uitest

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"storj.io/common/cfgstruct"
	"storj.io/common/testcontext"
	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/scenario"
	"storj.io/console-uitest/pkg/session"
	"storj.io/console-uitest/private/consoletest"
)

var mon = monkit.Package()

// Console describes the console under test.
type Console struct {
	Config  consoletest.Config
	Session *session.Session
	Browser consoletest.Browser
}

// Runner returns a scenario runner that opens contexts in the test browser.
func (console *Console) Runner(log *zap.Logger) *scenario.Runner {
	return scenario.NewRunner(log, console.Config.Run, scenario.Deps{
		Console:   console.Config.Console,
		Waits:     console.Config.Waits,
		Session:   console.Session,
		NewDriver: console.Browser.NewDriver,
	})
}

// Test defines common arguments for console UI tests. page already carries
// the run's session.
type Test func(t *testing.T, ctx *testcontext.Context, console *Console, page *browser.Page)

var (
	bootstrapOnce sync.Once
	bootstrapped  *session.Session
	bootstrapErr  error
)

// Configure returns the run configuration derived from the environment.
func Configure(t *testing.T, ctx *testcontext.Context, consoleURL string) consoletest.Config {
	var config consoletest.Config
	cfgstruct.Bind(pflag.NewFlagSet("", pflag.PanicOnError), &config, cfgstruct.UseReleaseDefaults(), cfgstruct.ConfDir(ctx.Dir("config")))

	config.Console.URL = consoleURL
	config.Credentials = config.Credentials.WithEnv()
	config.Session.StatePath = os.Getenv("STORJ_TEST_SESSION_FILE")

	show := os.Getenv("STORJ_TEST_SHOW_BROWSER")
	if kind := os.Getenv("STORJ_TEST_BROWSER_KIND"); kind != "" {
		config.Browser.Kind = kind
	}
	config.Browser.Rod.Headless = show == ""
	config.Browser.Playwright.Headless = show == ""
	if show == "slow" {
		config.Browser.Rod.SlowMotion = 300 * time.Millisecond
		config.Browser.Rod.Trace = true
		config.Browser.Playwright.SlowMotion = 300 * time.Millisecond
	}
	config.Browser.Rod.Bin = os.Getenv("STORJ_TEST_BROWSER")
	config.Browser.Rod.ControlURL = os.Getenv("STORJ_TEST_BROWSER_URL")
	return config
}

// Run starts a new UI test. The session is bootstrapped once per test
// binary and shared by every test.
func Run(t *testing.T, test Test) {
	consoleURL := os.Getenv("STORJ_TEST_CONSOLE_URL")
	if consoleURL == "" {
		t.Skip("STORJ_TEST_CONSOLE_URL is not set")
	}

	ctx := testcontext.New(t)
	log := zaptest.NewLogger(t)

	config := Configure(t, ctx, consoleURL)
	require.NoError(t, waitForConsole(ctx, consoleURL, 10*time.Second))

	launched, err := config.Browser.Launch(ctx, log.Named("browser"), nil)
	require.NoError(t, err)
	defer ctx.Check(launched.Close)

	console := &Console{Config: config, Browser: launched}

	bootstrapOnce.Do(func() {
		bootstrap := session.NewBootstrap(log.Named("session"), config.Session, config.Console, config.Waits, config.Credentials, launched.NewDriver)
		bootstrapped, bootstrapErr = bootstrap.Ensure(ctx)
	})
	require.NoError(t, bootstrapErr)
	console.Session = bootstrapped

	driver, err := launched.NewDriver(ctx)
	require.NoError(t, err)
	defer ctx.Check(driver.Close)

	require.NoError(t, console.Session.Apply(ctx, driver))
	test(t, ctx, console, browser.NewPage(log, driver, config.Waits))
}
