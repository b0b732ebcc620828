// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/pages"
	"storj.io/console-uitest/pkg/session"
)

// Config configures scenario execution.
type Config struct {
	Parallelism     int           `help:"how many scenarios run at the same time, each in its own browser context" default:"2" testDefault:"4"`
	ScenarioTimeout time.Duration `help:"upper bound for setup and flow of a single scenario" default:"5m" testDefault:"10s"`
	TeardownTimeout time.Duration `help:"upper bound for the teardown of a single scenario" default:"1m" testDefault:"5s"`
	BucketPrefix    string        `help:"prefix of bucket names created by scenarios" default:"e2e-test"`
}

// Deps are the collaborators shared by all scenarios of a run.
type Deps struct {
	Console   pages.Config
	Waits     browser.Waits
	Session   *session.Session
	Fixture   Fixture
	NewDriver session.NewDriverFunc
}

// Runner executes scenarios, each with an isolated browser context.
type Runner struct {
	log    *zap.Logger
	config Config
	deps   Deps
}

// NewRunner creates a runner.
func NewRunner(log *zap.Logger, config Config, deps Deps) *Runner {
	if config.Parallelism <= 0 {
		config.Parallelism = 1
	}
	return &Runner{log: log, config: config, deps: deps}
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario string
	Trace    *Trace
	Err      error
	Elapsed  time.Duration
}

// Run executes a single scenario in a fresh browser context.
func (runner *Runner) Run(ctx context.Context, scenario Scenario) (result Result) {
	defer mon.Task()(&ctx)(&result.Err)

	start := time.Now()
	result.Scenario = scenario.Name
	defer func() { result.Elapsed = time.Since(start) }()

	log := runner.log.Named("scenario").With(zap.String("scenario", scenario.Name))

	driver, err := runner.deps.NewDriver(ctx)
	if err != nil {
		result.Trace = NewTrace(scenario.Name)
		result.Err = Error.Wrap(err)
		result.Trace.finish(result.Err)
		return result
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Warn("closing browser context failed", zap.Error(err))
		}
	}()

	if runner.deps.Session != nil {
		if err := runner.deps.Session.Apply(ctx, driver); err != nil {
			result.Trace = NewTrace(scenario.Name)
			result.Err = err
			result.Trace.finish(err)
			return result
		}
	}

	env := &Env{
		Log:     log,
		Page:    browser.NewPage(log, driver, runner.deps.Waits),
		Console: runner.deps.Console,
		Session: runner.deps.Session,
		Fixture: runner.deps.Fixture,
		Vars: map[string]string{
			"prefix": runner.config.BucketPrefix,
		},
	}

	scenarioCtx, cancel := context.WithTimeout(ctx, runner.config.ScenarioTimeout)
	defer cancel()

	result.Trace, result.Err = Run(scenarioCtx, env, scenario, runner.config.TeardownTimeout)
	if result.Err != nil {
		log.Error("scenario failed", zap.Error(result.Err))
	} else {
		log.Info("scenario passed")
	}
	return result
}

// RunAll executes scenarios on a bounded worker pool. A failing scenario
// does not stop the others. Results are in the order of scenarios.
func (runner *Runner) RunAll(ctx context.Context, scenarios []Scenario) (_ *Report, err error) {
	defer mon.Task()(&ctx)(&err)

	results := make([]Result, len(scenarios))

	var group errgroup.Group
	group.SetLimit(runner.config.Parallelism)
	for i, scenario := range scenarios {
		group.Go(func() error {
			results[i] = runner.Run(ctx, scenario)
			return nil
		})
	}
	_ = group.Wait()

	report := &Report{Results: results}
	return report, report.Err()
}

// Report summarizes a run.
type Report struct {
	Results []Result
}

// Failed returns the number of failed scenarios.
func (report *Report) Failed() int {
	failed := 0
	for _, result := range report.Results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}

// Err combines the errors of all failed scenarios.
func (report *Report) Err() error {
	var group errs.Group
	for _, result := range report.Results {
		group.Add(result.Err)
	}
	return group.Err()
}

// WriteTo writes a human readable summary.
func (report *Report) WriteTo(w io.Writer) (n int64, err error) {
	write := func(format string, args ...interface{}) {
		if err != nil {
			return
		}
		var k int
		k, err = fmt.Fprintf(w, format, args...)
		n += int64(k)
	}

	for _, result := range report.Results {
		status := "PASS"
		if result.Err != nil {
			status = "FAIL"
		}
		write("%s %s (%s)\n", status, result.Scenario, result.Elapsed.Round(time.Millisecond))
		if result.Err != nil {
			write("    %v\n", result.Err)
		}
	}
	write("%d scenarios, %d failed\n", len(report.Results), report.Failed())
	return n, err
}
