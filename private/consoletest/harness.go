// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package consoletest

import (
	"context"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/console-uitest/pkg/s3fixture"
	"storj.io/console-uitest/pkg/scenario"
	"storj.io/console-uitest/pkg/session"
	"storj.io/console-uitest/private/fakeconsole"
)

var mon = monkit.Package()

// Harness owns the browser and the collaborators of a run.
type Harness struct {
	Log    *zap.Logger
	Config Config

	Browser Browser
	// Console is the in-process console when running simulated.
	Console *fakeconsole.Console
	// Buckets is the out-of-band fixture, nil when S3 is not configured.
	Buckets *s3fixture.Buckets
}

// New launches the configured browser. Credentials missing from the
// configuration are taken from the environment.
func New(ctx context.Context, log *zap.Logger, config Config) (_ *Harness, err error) {
	defer mon.Task()(&ctx)(&err)

	config.Credentials = config.Credentials.WithEnv()
	harness := &Harness{Log: log, Config: config}

	if config.Browser.Kind == "simulated" {
		harness.Console = fakeconsole.New(fakeconsole.Config{
			AccessKey:           config.Credentials.AccessKey,
			SecretKey:           config.Credentials.SecretKey,
			CommitDelay:         config.Browser.Simulated.CommitDelay,
			ModalDelay:          config.Browser.Simulated.ModalDelay,
			LoginDelay:          config.Browser.Simulated.LoginDelay,
			ReplicationLicensed: config.Browser.Simulated.ReplicationLicensed,
		})
	}

	if config.S3.Enabled() {
		harness.Buckets, err = s3fixture.New(log.Named("s3"), config.S3, config.Credentials.AccessKey, config.Credentials.SecretKey)
		if err != nil {
			return nil, err
		}
	}

	harness.Browser, err = config.Browser.Launch(ctx, log.Named("browser"), harness.Console)
	if err != nil {
		return nil, err
	}
	return harness, nil
}

// Fixture returns the out-of-band fixture, preferring S3 over the
// simulated console.
func (harness *Harness) Fixture() scenario.Fixture {
	switch {
	case harness.Buckets != nil:
		return harness.Buckets
	case harness.Console != nil:
		return harness.Console
	default:
		return nil
	}
}

// Bootstrap returns the run session.
func (harness *Harness) Bootstrap(ctx context.Context) (_ *session.Session, err error) {
	defer mon.Task()(&ctx)(&err)

	bootstrap := session.NewBootstrap(harness.Log.Named("session"), harness.Config.Session, harness.Config.Console,
		harness.Config.Waits, harness.Config.Credentials, harness.Browser.NewDriver)
	return bootstrap.Ensure(ctx)
}

// Runner returns a scenario runner sharing sess.
func (harness *Harness) Runner(sess *session.Session) *scenario.Runner {
	return scenario.NewRunner(harness.Log, harness.Config.Run, scenario.Deps{
		Console:   harness.Config.Console,
		Waits:     harness.Config.Waits,
		Session:   sess,
		Fixture:   harness.Fixture(),
		NewDriver: harness.Browser.NewDriver,
	})
}

// RunScenarios bootstraps the session and runs the configured scenarios.
func (harness *Harness) RunScenarios(ctx context.Context) (_ *scenario.Report, err error) {
	defer mon.Task()(&ctx)(&err)

	defs, err := harness.Config.LoadScenarios()
	if err != nil {
		return nil, err
	}
	scenarios, err := scenario.Compile(defs...)
	if err != nil {
		return nil, err
	}
	sess, err := harness.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	return harness.Runner(sess).RunAll(ctx, scenarios)
}

// Close stops the browser.
func (harness *Harness) Close() error {
	if harness.Browser == nil {
		return nil
	}
	return errs.Wrap(harness.Browser.Close())
}
