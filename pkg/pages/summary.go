// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pages

import (
	"context"

	"storj.io/console-uitest/pkg/browser"
)

// Tab ids of the bucket admin screen.
const (
	TabSummary     = "summary"
	TabEvents      = "events"
	TabReplication = "replication"
	TabLifecycle   = "lifecycle"
	TabAccess      = "access"
)

// BucketSummary is the bucket admin screen.
type BucketSummary struct {
	page   *browser.Page
	config Config

	Delete         *browser.Locator
	ConfirmOK      *browser.Locator
	SetReplication *browser.Locator

	Lifecycle *LifecycleForm
}

// NewBucketSummary declares the bucket admin locators.
func NewBucketSummary(page *browser.Page, config Config) (*BucketSummary, error) {
	page = page.Screen("bucket-summary")
	registry := browser.NewRegistry(page)
	summary := &BucketSummary{
		page:           page,
		config:         config,
		Delete:         registry.ID("delete", "delete-bucket-button"),
		ConfirmOK:      registry.ID("confirm-ok", "confirm-ok"),
		SetReplication: registry.ID("set-replication", "set-replication"),
	}
	if err := registry.Err(); err != nil {
		return nil, err
	}

	lifecycle, err := NewLifecycleForm(page)
	if err != nil {
		return nil, err
	}
	summary.Lifecycle = lifecycle
	return summary, nil
}

// Tab returns the locator of the tab with the given id.
func (summary *BucketSummary) Tab(id string) *browser.Locator {
	return summary.page.ByID(id)
}

// SwitchTab clicks the tab with the given id. Switching to the current tab
// is a no-op on the console side.
func (summary *BucketSummary) SwitchTab(ctx context.Context, id string) (err error) {
	defer mon.Task()(&ctx)(&err)
	return summary.Tab(id).Click(ctx)
}

// ConfirmDelete clicks delete and confirms the modal once it is attached.
func (summary *BucketSummary) ConfirmDelete(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := summary.Delete.Click(ctx); err != nil {
		return err
	}
	if err := summary.ConfirmOK.WaitFor(ctx); err != nil {
		return err
	}
	return summary.ConfirmOK.Click(ctx)
}

// OpenReplication starts adding a replication rule.
func (summary *BucketSummary) OpenReplication(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return summary.SetReplication.Click(ctx)
}

// OpenLifecycleVersionSelector opens a new lifecycle rule and returns the
// version dropdown.
func (summary *BucketSummary) OpenLifecycleVersionSelector(ctx context.Context) (_ *browser.Locator, err error) {
	defer mon.Task()(&ctx)(&err)
	return summary.Lifecycle.OpenVersionSelector(ctx)
}

// SelectLifecycleVersionOption picks a version in the open rule form.
func (summary *BucketSummary) SelectLifecycleVersionOption(ctx context.Context, option string) (err error) {
	defer mon.Task()(&ctx)(&err)
	return summary.Lifecycle.SelectVersion(ctx, option)
}

// SaveLifecycleRule saves the open rule form.
func (summary *BucketSummary) SaveLifecycleRule(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return summary.Lifecycle.Save(ctx)
}

// LifecycleRuleCount returns the number of listed lifecycle rules.
func (summary *BucketSummary) LifecycleRuleCount(ctx context.Context) (_ int, err error) {
	defer mon.Task()(&ctx)(&err)
	return summary.Lifecycle.Rules.Count(ctx)
}
