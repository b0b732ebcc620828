// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package rodbrowser implements browser.Driver on top of go-rod.
package rodbrowser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var (
	mon = monkit.Package()

	// Error is the rod driver error class.
	Error = errs.Class("rod")
)

// Config configures how the browser is started.
type Config struct {
	Headless   bool          `help:"run the browser without a window" default:"true"`
	Bin        string        `help:"path to the browser binary, downloaded when empty" default:""`
	ControlURL string        `help:"devtools url of an already running browser, launched when empty" default:""`
	NoSandbox  bool          `help:"disable the browser sandbox, required in most containers" default:"true"`
	SlowMotion time.Duration `help:"delay inserted before every browser input" default:"0s"`
	Trace      bool          `help:"highlight and log every browser input" default:"false"`
}

type zapWriter struct {
	*zap.Logger
}

func (log zapWriter) Write(data []byte) (int, error) {
	log.Logger.Info(string(data))
	return len(data), nil
}

// Launcher owns a browser process. Every driver created from it runs in its
// own incognito context.
type Launcher struct {
	log     *zap.Logger
	launch  *launcher.Launcher
	browser *rod.Browser
}

// Launch starts or connects to a browser.
func Launch(ctx context.Context, log *zap.Logger, config Config) (_ *Launcher, err error) {
	defer mon.Task()(&ctx)(&err)

	l := &Launcher{log: log}

	controlURL := config.ControlURL
	if controlURL == "" {
		l.launch = launcher.New().
			Headless(config.Headless).
			Leakless(false).
			Devtools(false).
			NoSandbox(config.NoSandbox).
			Logger(zapWriter{Logger: log.Named("launcher")})
		if config.Bin != "" {
			l.launch = l.launch.Bin(config.Bin)
		}

		controlURL, err = l.launch.Launch()
		if err != nil {
			l.launch.Cleanup()
			return nil, Error.Wrap(err)
		}
	}

	logBrowser := log.Named("rod")
	l.browser = rod.New().
		ControlURL(controlURL).
		Trace(config.Trace).
		SlowMotion(config.SlowMotion).
		Logger(utils.Log(func(msg ...interface{}) {
			logBrowser.Info(fmt.Sprintln(msg...))
		})).
		Context(ctx)

	if err := l.browser.Connect(); err != nil {
		if l.launch != nil {
			l.launch.Cleanup()
		}
		return nil, Error.Wrap(err)
	}
	return l, nil
}

// NewDriver opens an isolated browser context with a single page.
func (l *Launcher) NewDriver(ctx context.Context) (_ *Driver, err error) {
	defer mon.Task()(&ctx)(&err)

	incognito, err := l.browser.Incognito()
	if err != nil {
		return nil, Error.Wrap(err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = incognito.Close()
		return nil, Error.Wrap(err)
	}
	return &Driver{
		log:     l.log.Named("driver"),
		browser: incognito,
		page:    page,
	}, nil
}

// Close stops the browser.
func (l *Launcher) Close() error {
	err := l.browser.Close()
	if l.launch != nil {
		l.launch.Cleanup()
	}
	return Error.Wrap(err)
}
