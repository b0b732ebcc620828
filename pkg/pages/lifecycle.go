// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pages

import (
	"context"

	"storj.io/console-uitest/pkg/browser"
)

// LifecycleForm is the lifecycle tab and its rule form.
type LifecycleForm struct {
	page *browser.Page

	AddRule *browser.Locator
	// Version has no stable id; it is the first div inside the select
	// wrapper.
	Version  *browser.Locator
	SaveRule *browser.Locator
	Rules    *browser.Locator
}

// NewLifecycleForm declares the lifecycle locators.
func NewLifecycleForm(page *browser.Page) (*LifecycleForm, error) {
	page = page.Screen("lifecycle")
	registry := browser.NewRegistry(page)
	form := &LifecycleForm{
		page:     page,
		AddRule:  registry.Role("add-rule", "button", "Add Lifecycle Rule"),
		Version:  registry.Structural("version", "#object_version-select div", 0),
		SaveRule: registry.Role("save", "button", "Save"),
		Rules:    registry.CSS("rules", "#lifecycle-rules tr.lifecycle-rule"),
	}
	return form, registry.Err()
}

// OpenVersionSelector opens a new rule form and returns the version
// dropdown once it is attached.
func (form *LifecycleForm) OpenVersionSelector(ctx context.Context) (*browser.Locator, error) {
	if err := form.AddRule.Click(ctx); err != nil {
		return nil, err
	}
	if err := form.Version.WaitFor(ctx); err != nil {
		return nil, err
	}
	return form.Version, nil
}

// SelectVersion opens the dropdown and picks option.
func (form *LifecycleForm) SelectVersion(ctx context.Context, option string) error {
	if err := form.Version.Click(ctx); err != nil {
		return err
	}
	return form.page.GetByRole("option", option).Click(ctx)
}

// Save saves the rule and waits until the form closed.
func (form *LifecycleForm) Save(ctx context.Context) error {
	if err := form.SaveRule.Click(ctx); err != nil {
		return err
	}
	return form.SaveRule.WaitCount(ctx, 0, 0)
}
