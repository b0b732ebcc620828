// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pages

import (
	"context"
	"net/url"
	"strings"
	"time"

	"storj.io/console-uitest/pkg/browser"
)

// Login is the sign-in screen.
type Login struct {
	page   *browser.Page
	config Config

	Username *browser.Locator
	Password *browser.Locator
	Submit   *browser.Locator
}

// NewLogin declares the login screen locators.
func NewLogin(page *browser.Page, config Config) (*Login, error) {
	page = page.Screen("login")
	registry := browser.NewRegistry(page)
	login := &Login{
		page:     page,
		config:   config,
		Username: registry.Placeholder("username", "Username"),
		Password: registry.Placeholder("password", "Password"),
		Submit:   registry.Role("submit", "button", "Login"),
	}
	return login, registry.Err()
}

// Open navigates to the login screen.
func (login *Login) Open(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return login.page.Navigate(ctx, login.config.LoginURL())
}

// SignIn fills the credentials and submits the form.
func (login *Login) SignIn(ctx context.Context, accessKey, secretKey string) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := login.Username.Fill(ctx, accessKey); err != nil {
		return err
	}
	if err := login.Password.Fill(ctx, secretKey); err != nil {
		return err
	}
	return login.Submit.Click(ctx)
}

// WaitSignedIn waits until the browser left the login screen and the login
// form is gone.
func (login *Login) WaitSignedIn(ctx context.Context, timeout time.Duration) (err error) {
	defer mon.Task()(&ctx)(&err)

	return login.page.Until(ctx, timeout, func(ctx context.Context) (bool, error) {
		onLogin, err := login.OnLoginPath(ctx)
		if err != nil || onLogin {
			return false, err
		}
		count, err := login.Submit.Count(ctx)
		return count == 0, err
	})
}

// OnLoginPath reports whether the current url is the login screen.
func (login *Login) OnLoginPath(ctx context.Context) (bool, error) {
	current, err := login.page.URL(ctx)
	if err != nil {
		return false, Error.Wrap(err)
	}
	u, err := url.Parse(current)
	if err != nil {
		return false, Error.Wrap(err)
	}
	loginPath := "/" + strings.Trim(login.config.LoginPath, "/")
	return u.Path == loginPath || strings.HasPrefix(u.Path, loginPath+"/"), nil
}
