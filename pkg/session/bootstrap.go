// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"context"
	"os"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/pages"
)

// Config configures authentication.
type Config struct {
	StatePath    string        `help:"file the authenticated storage state is persisted to, empty disables persistence" default:"$CONFDIR/storage-state.json" testDefault:""`
	LoginTimeout time.Duration `help:"how long the console may take to leave the login screen after submitting" default:"30s" testDefault:"2s"`
	LoginSettle  time.Duration `help:"fixed delay after the login redirect before the state is captured" default:"0s"`
	Reuse        bool          `help:"reuse a persisted storage state when it is still accepted" default:"true"`
}

// NewDriverFunc opens an isolated browser context.
type NewDriverFunc func(ctx context.Context) (browser.Driver, error)

// Bootstrap produces the run's session.
type Bootstrap struct {
	log       *zap.Logger
	config    Config
	console   pages.Config
	waits     browser.Waits
	creds     Credentials
	newDriver NewDriverFunc
}

// NewBootstrap creates a bootstrap for the console.
func NewBootstrap(log *zap.Logger, config Config, console pages.Config, waits browser.Waits, creds Credentials, newDriver NewDriverFunc) *Bootstrap {
	return &Bootstrap{
		log:       log,
		config:    config,
		console:   console,
		waits:     waits,
		creds:     creds,
		newDriver: newDriver,
	}
}

// Ensure returns a session, reusing the persisted one when the console
// still accepts it. Otherwise it signs in once; a failed sign-in is not
// retried.
func (bootstrap *Bootstrap) Ensure(ctx context.Context) (_ *Session, err error) {
	defer mon.Task()(&ctx)(&err)

	if bootstrap.config.Reuse && bootstrap.config.StatePath != "" {
		session, err := bootstrap.reuse(ctx)
		if err == nil {
			bootstrap.log.Info("reusing stored session", zap.String("path", bootstrap.config.StatePath))
			return session, nil
		}
		bootstrap.log.Info("stored session not usable", zap.Error(err))
	}

	session, err := bootstrap.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	if bootstrap.config.StatePath != "" {
		if err := Save(bootstrap.config.StatePath, session); err != nil {
			return nil, ErrSetup.Wrap(err)
		}
		bootstrap.log.Info("stored session", zap.String("path", bootstrap.config.StatePath))
	}
	return session, nil
}

func (bootstrap *Bootstrap) reuse(ctx context.Context) (_ *Session, err error) {
	session, err := Load(bootstrap.config.StatePath)
	if err != nil {
		return nil, err
	}
	driver, err := bootstrap.newDriver(ctx)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer func() { err = errs.Combine(err, driver.Close()) }()

	page := browser.NewPage(bootstrap.log, driver, bootstrap.waits)
	if err := Verify(ctx, page, bootstrap.console, session, bootstrap.config.LoginTimeout); err != nil {
		return nil, err
	}
	return session, nil
}

func (bootstrap *Bootstrap) authenticate(ctx context.Context) (_ *Session, err error) {
	if err := bootstrap.creds.Validate(); err != nil {
		return nil, err
	}
	driver, err := bootstrap.newDriver(ctx)
	if err != nil {
		return nil, ErrSetup.Wrap(err)
	}
	defer func() { err = errs.Combine(err, driver.Close()) }()

	page := browser.NewPage(bootstrap.log, driver, bootstrap.waits)
	return Authenticate(ctx, page, bootstrap.console, bootstrap.creds, bootstrap.config)
}

// Authenticate signs in through the login form and captures the storage
// state. Every failure is an ErrSetup.
func Authenticate(ctx context.Context, page *browser.Page, console pages.Config, creds Credentials, config Config) (_ *Session, err error) {
	defer mon.Task()(&ctx)(&err)

	log := page.Log().Named("session")

	login, err := pages.NewLogin(page, console)
	if err != nil {
		return nil, ErrSetup.Wrap(err)
	}
	if err := login.Open(ctx); err != nil {
		return nil, ErrSetup.Wrap(err)
	}
	if err := login.SignIn(ctx, creds.AccessKey, creds.SecretKey); err != nil {
		return nil, ErrSetup.Wrap(err)
	}
	if err := login.WaitSignedIn(ctx, config.LoginTimeout); err != nil {
		return nil, ErrSetup.New("login redirect not observed: %v", err)
	}
	if err := page.WaitForTimeout(ctx, config.LoginSettle); err != nil {
		return nil, ErrSetup.Wrap(err)
	}

	state, err := page.Driver().StorageState(ctx)
	if err != nil {
		return nil, ErrSetup.Wrap(err)
	}
	if state.Empty() {
		return nil, ErrSetup.New("signed in without any cookies or local storage")
	}
	log.Info("authenticated", zap.Int("cookies", len(state.Cookies)), zap.Int("origins", len(state.Origins)))
	return New(state, time.Now()), nil
}

// Verify applies session to a fresh page and checks that the bucket list
// opens without the login form.
func Verify(ctx context.Context, page *browser.Page, console pages.Config, session *Session, timeout time.Duration) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := session.Apply(ctx, page.Driver()); err != nil {
		return err
	}
	list, err := pages.NewBucketList(page, console)
	if err != nil {
		return Error.Wrap(err)
	}
	login, err := pages.NewLogin(page, console)
	if err != nil {
		return Error.Wrap(err)
	}
	if err := list.LoadPage(ctx); err != nil {
		return Error.Wrap(err)
	}
	err = page.Until(ctx, timeout, func(ctx context.Context) (bool, error) {
		onLogin, err := login.OnLoginPath(ctx)
		if err != nil || onLogin {
			return false, err
		}
		count, err := list.Create.Count(ctx)
		return count > 0, err
	})
	if browser.ErrTimeout.Has(err) {
		return Error.New("session rejected: bucket list not reachable")
	}
	return err
}

// Exists reports whether a session file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
