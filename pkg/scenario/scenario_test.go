// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"storj.io/common/testcontext"
	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/pages"
	"storj.io/console-uitest/pkg/scenario"
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
	runConfig = scenario.Config{
		Parallelism:     4,
		ScenarioTimeout: 10 * time.Second,
		TeardownTimeout: 5 * time.Second,
		BucketPrefix:    "e2e-test",
	}
)

func newRunner(t *testing.T, ctx *testcontext.Context, console *fakeconsole.Console, withFixture bool) *scenario.Runner {
	log := zaptest.NewLogger(t)
	newDriver := func(ctx context.Context) (browser.Driver, error) {
		return console.NewBrowser(), nil
	}

	bootstrap := session.NewBootstrap(log, session.Config{LoginTimeout: time.Second}, consoleConfig, testWaits,
		session.Credentials{AccessKey: "ak", SecretKey: "sk"}, newDriver)
	sess, err := bootstrap.Ensure(ctx)
	require.NoError(t, err)

	deps := scenario.Deps{
		Console:   consoleConfig,
		Waits:     testWaits,
		Session:   sess,
		NewDriver: newDriver,
	}
	if withFixture {
		deps.Fixture = console
	}
	return scenario.NewRunner(log, runConfig, deps)
}

func newConsole() *fakeconsole.Console {
	return fakeconsole.New(fakeconsole.Config{
		AccessKey:   "ak",
		SecretKey:   "sk",
		CommitDelay: 20 * time.Millisecond,
		ModalDelay:  10 * time.Millisecond,
	})
}

func TestRunTeardownAfterFailure(t *testing.T) {
	ctx := testcontext.New(t)

	var order []string
	step := func(name string, err error) scenario.Step {
		return scenario.Step{Name: name, Run: func(ctx context.Context, env *scenario.Env) error {
			order = append(order, name)
			return err
		}}
	}
	failure := errors.New("boom")

	trace, err := scenario.Run(ctx, &scenario.Env{Log: zaptest.NewLogger(t)}, scenario.Scenario{
		Name:     "failing",
		Setup:    []scenario.Step{step("setup", nil)},
		Steps:    []scenario.Step{step("first", nil), step("second", failure), step("third", nil)},
		Teardown: []scenario.Step{step("cleanup", nil), step("cleanup-more", nil)},
	}, time.Second)
	require.ErrorIs(t, err, failure)
	require.True(t, scenario.Error.Has(err))
	require.False(t, trace.Passed())
	require.Equal(t, []string{"setup", "first", "second", "cleanup", "cleanup-more"}, order)

	var statuses []scenario.Status
	for _, event := range trace.Events() {
		statuses = append(statuses, event.Status)
	}
	require.Equal(t, []scenario.Status{
		scenario.StatusPassed,
		scenario.StatusPassed,
		scenario.StatusFailed,
		scenario.StatusSkipped,
		scenario.StatusPassed,
		scenario.StatusPassed,
	}, statuses)
}

func TestRunTeardownAfterTimeout(t *testing.T) {
	ctx := testcontext.New(t)

	timed, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	tornDown := false
	trace, err := scenario.Run(timed, &scenario.Env{Log: zaptest.NewLogger(t)}, scenario.Scenario{
		Name: "slow",
		Steps: []scenario.Step{{Name: "block", Run: func(ctx context.Context, env *scenario.Env) error {
			<-ctx.Done()
			return ctx.Err()
		}}},
		Teardown: []scenario.Step{{Name: "cleanup", Run: func(ctx context.Context, env *scenario.Env) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tornDown = true
			return nil
		}}},
	}, time.Second)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.True(t, tornDown)
	require.Contains(t, trace.String(), "(scenario timeout)")
}

func TestEnvName(t *testing.T) {
	env := &scenario.Env{}
	a, b := env.Name("e2e-test"), env.Name("e2e-test")
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "e2e-test-"))
	require.Len(t, a, len("e2e-test-")+12)
	require.Len(t, env.Name(""), 12)
}

func TestEqual(t *testing.T) {
	require.NoError(t, scenario.Equal("rows", 1, 1))

	err := scenario.Equal("rows", 1, 0)
	require.True(t, scenario.ErrAssertion.Has(err))
	assertion, ok := scenario.AsAssertion(err)
	require.True(t, ok)
	require.Equal(t, "1", assertion.Expected)
	require.Equal(t, "0", assertion.Actual)
	require.Equal(t, "assertion failed: expected 1, got 0", scenario.Classify(err))
}

func TestBuiltinGolden(t *testing.T) {
	ctx := testcontext.New(t)

	console := newConsole()
	runner := newRunner(t, ctx, console, true)

	defs, err := scenario.Builtins()
	require.NoError(t, err)
	require.Len(t, defs, 3)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	for _, def := range defs {
		compiled, err := def.Scenario()
		require.NoError(t, err)

		result := runner.Run(ctx, compiled)
		require.NoError(t, result.Err, def.Name)
		g.Assert(t, def.Name, []byte(result.Trace.String()))
	}
}

func TestFailingGolden(t *testing.T) {
	ctx := testcontext.New(t)

	console := newConsole()
	runner := newRunner(t, ctx, console, false)

	def, err := scenario.LoadFile("testdata/scenarios/missing_bucket.yaml")
	require.NoError(t, err)
	compiled, err := def.Scenario()
	require.NoError(t, err)

	result := runner.Run(ctx, compiled)
	require.Error(t, result.Err)
	require.True(t, scenario.ErrAssertion.Has(result.Err))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, def.Name, []byte(result.Trace.String()))
}

func TestRunAllParallel(t *testing.T) {
	ctx := testcontext.New(t)

	console := newConsole()
	runner := newRunner(t, ctx, console, true)

	def, err := scenario.Builtin("bucket-lifecycle")
	require.NoError(t, err)

	var scenarios []scenario.Scenario
	for i := 0; i < 6; i++ {
		compiled, err := def.Scenario()
		require.NoError(t, err)
		scenarios = append(scenarios, compiled)
	}

	report, err := runner.RunAll(ctx, scenarios)
	require.NoError(t, err)
	require.Len(t, report.Results, 6)
	require.Zero(t, report.Failed())
	require.Equal(t, 1, console.Logins())

	var summary strings.Builder
	_, err = report.WriteTo(&summary)
	require.NoError(t, err)
	require.Contains(t, summary.String(), "6 scenarios, 0 failed")
}

func TestRunAllIsolatesFailures(t *testing.T) {
	ctx := testcontext.New(t)

	console := newConsole()
	runner := newRunner(t, ctx, console, true)

	var ran atomic.Int32
	ok := scenario.Scenario{Name: "ok", Steps: []scenario.Step{{Name: "noop", Run: func(ctx context.Context, env *scenario.Env) error {
		ran.Add(1)
		return nil
	}}}}
	missing := scenario.Scenario{Name: "missing", Steps: []scenario.Step{{Name: "open", Run: func(ctx context.Context, env *scenario.Env) error {
		ran.Add(1)
		summary, err := env.BucketSummary()
		if err != nil {
			return err
		}
		return summary.ConfirmDelete(ctx)
	}}}}

	report, err := runner.RunAll(ctx, []scenario.Scenario{ok, missing, ok})
	require.Error(t, err)
	require.Equal(t, int32(3), ran.Load())
	require.Equal(t, 1, report.Failed())
	require.Equal(t, "missing", report.Results[1].Scenario)
	require.True(t, browser.IsTargetNotFound(report.Results[1].Err))
	require.Equal(t, "scenario: missing\nstep     FAIL open (target not found)\nresult: failed\n", report.Results[1].Trace.String())
}

func TestRunnerTagsScenarioOnce(t *testing.T) {
	ctx := testcontext.New(t)

	console := newConsole()
	core, logs := observer.New(zapcore.DebugLevel)
	runner := scenario.NewRunner(zap.New(core), runConfig, scenario.Deps{
		Console: consoleConfig,
		Waits:   testWaits,
		NewDriver: func(ctx context.Context) (browser.Driver, error) {
			return console.NewBrowser(), nil
		},
	})

	failing := scenario.Scenario{
		Name: "failing",
		Steps: []scenario.Step{{Name: "fail", Run: func(ctx context.Context, env *scenario.Env) error {
			return errors.New("broken")
		}}},
		Teardown: []scenario.Step{{Name: "cleanup", Run: func(ctx context.Context, env *scenario.Env) error {
			return nil
		}}},
	}
	result := runner.Run(ctx, failing)
	require.Error(t, result.Err)

	entries := logs.All()
	require.NotEmpty(t, logs.FilterMessage("step failed").All())
	for _, entry := range entries {
		tagged := 0
		for _, field := range entry.Context {
			if field.Key == "scenario" {
				tagged++
			}
		}
		require.Equal(t, 1, tagged, entry.Message)
	}
}

func TestRemoveMissingBucketWithoutFixture(t *testing.T) {
	ctx := testcontext.New(t)

	console := newConsole()
	runner := newRunner(t, ctx, console, false)

	def, err := scenario.Parse([]byte(`
name: cleanup
vars:
  bucket: name(${prefix})
steps:
  - action: remove-bucket
    bucket: ${bucket}
teardown:
  - action: remove-bucket
    bucket: ${bucket}
`))
	require.NoError(t, err)
	compiled, err := def.Scenario()
	require.NoError(t, err)

	result := runner.Run(ctx, compiled)
	require.NoError(t, result.Err)
	require.Less(t, result.Elapsed, consoleConfig.ListingTimeout)
}
