// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package consoletest assembles the configured pieces of a console UI test
// run: browser, session bootstrap, out-of-band fixture and scenario runner.
package consoletest

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/browser/pwbrowser"
	"storj.io/console-uitest/pkg/browser/rodbrowser"
	"storj.io/console-uitest/pkg/pages"
	"storj.io/console-uitest/pkg/s3fixture"
	"storj.io/console-uitest/pkg/scenario"
	"storj.io/console-uitest/pkg/session"
	"storj.io/console-uitest/private/fakeconsole"
)

// Error is the consoletest error class.
var Error = errs.Class("consoletest")

// Config is the complete configuration of a run.
type Config struct {
	Console     pages.Config
	Credentials session.Credentials
	Browser     BrowserConfig
	Waits       browser.Waits
	Session     session.Config
	Run         scenario.Config
	S3          s3fixture.Config

	Scenarios string `help:"scenario yaml file or directory of yaml files, builtin scenarios when empty" default:""`
}

// BrowserConfig selects and configures the browser driver.
type BrowserConfig struct {
	Kind       string `help:"browser driver to use: rod, playwright or simulated" default:"rod"`
	Rod        rodbrowser.Config
	Playwright pwbrowser.Config
	Simulated  SimulatedConfig
}

// SimulatedConfig configures the in-process console used by the simulated
// browser kind.
type SimulatedConfig struct {
	CommitDelay         time.Duration `help:"how long bucket changes take to show up in listings" default:"200ms" testDefault:"20ms"`
	ModalDelay          time.Duration `help:"how long the delete confirmation takes to mount" default:"100ms" testDefault:"10ms"`
	LoginDelay          time.Duration `help:"how long the post-login redirect takes" default:"100ms" testDefault:"10ms"`
	ReplicationLicensed bool          `help:"render the replication tab" default:"false"`
}

// Browser opens isolated browser contexts.
type Browser interface {
	NewDriver(ctx context.Context) (browser.Driver, error)
	Close() error
}

// Launch starts the configured browser. The simulated kind drives console,
// which must be non-nil in that case.
func (config BrowserConfig) Launch(ctx context.Context, log *zap.Logger, console *fakeconsole.Console) (Browser, error) {
	switch config.Kind {
	case "rod":
		launched, err := rodbrowser.Launch(ctx, log, config.Rod)
		if err != nil {
			return nil, err
		}
		return rodLauncher{launched}, nil
	case "playwright":
		launched, err := pwbrowser.Launch(ctx, log, config.Playwright)
		if err != nil {
			return nil, err
		}
		return pwLauncher{launched}, nil
	case "simulated":
		if console == nil {
			return nil, Error.New("simulated browser requires a simulated console")
		}
		return simulated{console}, nil
	default:
		return nil, Error.New("unknown browser kind %q", config.Kind)
	}
}

type rodLauncher struct{ *rodbrowser.Launcher }

func (l rodLauncher) NewDriver(ctx context.Context) (browser.Driver, error) {
	return l.Launcher.NewDriver(ctx)
}

type pwLauncher struct{ *pwbrowser.Launcher }

func (l pwLauncher) NewDriver(ctx context.Context) (browser.Driver, error) {
	return l.Launcher.NewDriver(ctx)
}

type simulated struct{ console *fakeconsole.Console }

func (s simulated) NewDriver(ctx context.Context) (browser.Driver, error) {
	return s.console.NewBrowser(), nil
}

func (s simulated) Close() error { return nil }

// LoadScenarios returns the configured scenario definitions.
func (config Config) LoadScenarios() ([]*scenario.Definition, error) {
	if config.Scenarios == "" {
		return scenario.Builtins()
	}

	info, err := os.Stat(config.Scenarios)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if !info.IsDir() {
		def, err := scenario.LoadFile(config.Scenarios)
		if err != nil {
			return nil, err
		}
		return []*scenario.Definition{def}, nil
	}

	paths, err := filepath.Glob(filepath.Join(config.Scenarios, "*.yaml"))
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defs := make([]*scenario.Definition, 0, len(paths))
	for _, path := range paths {
		def, err := scenario.LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, Error.New("no scenarios in %q", config.Scenarios)
	}
	return defs, nil
}
