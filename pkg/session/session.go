// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package session authenticates against the console once per run and
// shares the resulting browser storage state with every scenario.
package session

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/console-uitest/pkg/browser"
)

var (
	mon = monkit.Package()

	// Error is the default session error class.
	Error = errs.Class("session")
	// ErrSetup is returned when the run could not authenticate. It is fatal
	// for the whole run.
	ErrSetup = errs.Class("authentication setup failed")
)

// Environment variables holding the console credentials.
const (
	EnvAccessKey = "STORJ_ACCESS_KEY"
	EnvSecretKey = "STORJ_SECRET_KEY"
)

// Credentials are the console sign-in credentials.
type Credentials struct {
	AccessKey string `help:"console access key, defaults to $STORJ_ACCESS_KEY" default:""`
	SecretKey string `help:"console secret key, defaults to $STORJ_SECRET_KEY" default:""`
}

// WithEnv fills empty fields from the environment.
func (creds Credentials) WithEnv() Credentials {
	if creds.AccessKey == "" {
		creds.AccessKey = os.Getenv(EnvAccessKey)
	}
	if creds.SecretKey == "" {
		creds.SecretKey = os.Getenv(EnvSecretKey)
	}
	return creds
}

// Validate checks that both credentials are present.
func (creds Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(creds.AccessKey) == "" {
		missing = append(missing, EnvAccessKey)
	}
	if strings.TrimSpace(creds.SecretKey) == "" {
		missing = append(missing, EnvSecretKey)
	}
	if len(missing) > 0 {
		return ErrSetup.New("missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Session is an authenticated browser storage state. It is immutable: all
// accessors return copies.
type Session struct {
	state   *browser.StorageState
	created time.Time
}

// New wraps a captured storage state.
func New(state *browser.StorageState, created time.Time) *Session {
	return &Session{state: state.Clone(), created: created}
}

// State returns a copy of the storage state.
func (session *Session) State() *browser.StorageState {
	return session.state.Clone()
}

// Created returns when the session was authenticated.
func (session *Session) Created() time.Time { return session.created }

// Apply installs the session into a fresh driver.
func (session *Session) Apply(ctx context.Context, driver browser.Driver) (err error) {
	defer mon.Task()(&ctx)(&err)
	return Error.Wrap(driver.SetStorageState(ctx, session.State()))
}
