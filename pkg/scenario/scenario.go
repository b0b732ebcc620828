// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package scenario composes page objects into workflows. A scenario runs
// its setup and flow steps in order and always runs its teardown.
package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/pages"
	"storj.io/console-uitest/pkg/session"
)

var (
	mon = monkit.Package()

	// Error is the default scenario error class.
	Error = errs.Class("scenario")
)

// Fixture manages buckets out of band, bypassing the console UI.
type Fixture interface {
	EnsureBucket(ctx context.Context, name string) error
	DeleteBucket(ctx context.Context, name string) error
	BucketExists(ctx context.Context, name string) (bool, error)
}

// Step is a single action of a scenario.
type Step struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// Scenario is an ordered workflow.
type Scenario struct {
	Name string
	// Prepare initializes env before setup, failing the setup phase when
	// it returns an error.
	Prepare  func(env *Env) error
	Setup    []Step
	Steps    []Step
	Teardown []Step
}

// Env is what steps operate on. It is created per scenario run.
type Env struct {
	Log     *zap.Logger
	Page    *browser.Page
	Console pages.Config
	Session *session.Session
	// Fixture is nil when no out-of-band access is configured.
	Fixture Fixture
	Vars    map[string]string
}

// Name returns a unique name starting with prefix.
func (env *Env) Name(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if prefix == "" {
		return suffix
	}
	return prefix + "-" + suffix
}

// BucketList returns the bucket list page object.
func (env *Env) BucketList() (*pages.BucketList, error) {
	return pages.NewBucketList(env.Page, env.Console)
}

// BucketSummary returns the bucket admin page object.
func (env *Env) BucketSummary() (*pages.BucketSummary, error) {
	return pages.NewBucketSummary(env.Page, env.Console)
}

// Run executes scenario against env, logging to env.Log as is. Setup and
// flow stop at the first failure; teardown always runs on a fresh context
// bounded by teardownTimeout, even when ctx is already done.
func Run(ctx context.Context, env *Env, scenario Scenario, teardownTimeout time.Duration) (trace *Trace, err error) {
	defer mon.Task()(&ctx)(&err)

	trace = NewTrace(scenario.Name)
	log := env.Log

	if scenario.Prepare != nil {
		if err = scenario.Prepare(env); err != nil {
			trace.record(PhaseSetup, "prepare", StatusFailed, err, 0)
			err = Error.Wrap(fmt.Errorf("prepare: %w", err))
		}
	}
	err = runSteps(ctx, log, env, trace, PhaseSetup, scenario.Setup, err)
	err = runSteps(ctx, log, env, trace, PhaseStep, scenario.Steps, err)

	teardownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()
	for _, step := range scenario.Teardown {
		stepErr := runStep(teardownCtx, log, env, trace, PhaseTeardown, step)
		err = errs.Combine(err, stepErr)
	}

	trace.finish(err)
	return trace, err
}

// runSteps runs steps in order. Once failed is non-nil the remaining steps
// are recorded as skipped.
func runSteps(ctx context.Context, log *zap.Logger, env *Env, trace *Trace, phase Phase, steps []Step, failed error) error {
	for _, step := range steps {
		if failed != nil {
			trace.record(phase, step.Name, StatusSkipped, nil, 0)
			continue
		}
		failed = runStep(ctx, log, env, trace, phase, step)
	}
	return failed
}

func runStep(ctx context.Context, log *zap.Logger, env *Env, trace *Trace, phase Phase, step Step) (err error) {
	defer mon.Task()(&ctx)(&err)

	start := time.Now()
	err = step.Run(ctx, env)
	if err == nil {
		err = ctx.Err()
	}
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("step failed", zap.Stringer("phase", phase), zap.String("step", step.Name), zap.Error(err))
		trace.record(phase, step.Name, StatusFailed, err, elapsed)
		return Error.Wrap(fmt.Errorf("%s %q: %w", phase, step.Name, err))
	}
	log.Debug("step passed", zap.Stringer("phase", phase), zap.String("step", step.Name), zap.Duration("elapsed", elapsed))
	trace.record(phase, step.Name, StatusPassed, nil, elapsed)
	return nil
}
