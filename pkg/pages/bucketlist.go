// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pages

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storj.io/console-uitest/pkg/browser"
)

// BucketList is the bucket listing screen.
type BucketList struct {
	page   *browser.Page
	config Config

	Create  *browser.Locator
	Refresh *browser.Locator
}

// NewBucketList declares the bucket list locators.
func NewBucketList(page *browser.Page, config Config) (*BucketList, error) {
	page = page.Screen("bucket-list")
	registry := browser.NewRegistry(page)
	list := &BucketList{
		page:    page,
		config:  config,
		Create:  registry.ID("create", "create-bucket"),
		Refresh: registry.ID("refresh", "refresh-buckets"),
	}
	return list, registry.Err()
}

// Row returns the locator of the row for bucket name.
func (list *BucketList) Row(name string) *browser.Locator {
	return list.page.ByID("manageBucket-" + name)
}

// LoadPage navigates to the bucket list.
func (list *BucketList) LoadPage(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return list.page.Navigate(ctx, list.config.BucketsURL())
}

// IsBucketPresent returns how many rows are rendered for name, without
// refreshing or waiting.
func (list *BucketList) IsBucketPresent(ctx context.Context, name string) (_ int, err error) {
	defer mon.Task()(&ctx)(&err)
	return list.Row(name).Count(ctx)
}

// GoToCreateBucket opens the creation form.
func (list *BucketList) GoToCreateBucket(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return list.Create.Click(ctx)
}

// OpenBucket refreshes the listing until the row for name is rendered and
// opens it. A bucket that never shows up results in a target-not-found error.
func (list *BucketList) OpenBucket(ctx context.Context, name string) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := list.Refresh.Click(ctx); err != nil {
		return err
	}
	if err := list.page.WaitForTimeout(ctx, list.config.RefreshSettle); err != nil {
		return err
	}

	row := list.Row(name)
	start := time.Now()
	if err := list.waitCount(ctx, row, 1, false); err != nil {
		if browser.ErrTimeout.Has(err) {
			return row.NotFound("open bucket", time.Since(start), err)
		}
		return err
	}
	return row.Click(ctx)
}

// WaitBucketCount refreshes the listing until exactly want rows for name
// are rendered.
func (list *BucketList) WaitBucketCount(ctx context.Context, name string, want int) (err error) {
	defer mon.Task()(&ctx)(&err)
	return list.waitCount(ctx, list.Row(name), want, true)
}

// CreateBucket creates the bucket through the form and waits until the
// listing shows it.
func (list *BucketList) CreateBucket(ctx context.Context, name string) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := list.GoToCreateBucket(ctx); err != nil {
		return err
	}
	form, err := NewCreateBucket(list.page)
	if err != nil {
		return err
	}
	if err := form.Create(ctx, name); err != nil {
		return err
	}
	// the form returns to the listing once the bucket was accepted.
	if err := list.Refresh.WaitFor(ctx); err != nil {
		return err
	}
	return list.WaitBucketCount(ctx, name, 1)
}

// DeleteBucket opens the bucket, deletes it from the summary tab and waits
// until the listing no longer shows it.
func (list *BucketList) DeleteBucket(ctx context.Context, name string) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := list.OpenBucket(ctx, name); err != nil {
		return err
	}
	summary, err := NewBucketSummary(list.page, list.config)
	if err != nil {
		return err
	}
	if err := summary.SwitchTab(ctx, TabSummary); err != nil {
		return err
	}
	if err := summary.ConfirmDelete(ctx); err != nil {
		return err
	}
	if err := list.LoadPage(ctx); err != nil {
		return err
	}
	return list.WaitBucketCount(ctx, name, 0)
}

// RemoveBucket deletes name when a refreshed listing shows it and does
// nothing otherwise. A bucket that disappears while being deleted is not
// an error.
func (list *BucketList) RemoveBucket(ctx context.Context, name string) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := list.LoadPage(ctx); err != nil {
		return err
	}
	if err := list.Refresh.Click(ctx); err != nil {
		return err
	}
	if err := list.page.WaitForTimeout(ctx, list.config.RefreshSettle); err != nil {
		return err
	}
	count, err := list.IsBucketPresent(ctx, name)
	if err != nil {
		return err
	}
	if count == 0 {
		list.page.Log().Debug("bucket not listed, nothing to remove", zap.String("bucket", name))
		return nil
	}

	err = list.DeleteBucket(ctx, name)
	if browser.IsTargetNotFound(err) {
		return nil
	}
	return err
}

// waitCount polls the row count, clicking refresh between polls. When
// exact is false any count of at least want satisfies the wait.
func (list *BucketList) waitCount(ctx context.Context, row *browser.Locator, want int, exact bool) error {
	got := -1
	start := time.Now()
	err := list.page.Until(ctx, list.config.ListingTimeout, func(ctx context.Context) (bool, error) {
		if got >= 0 {
			if err := list.Refresh.Click(ctx); err != nil {
				return false, err
			}
		}
		count, err := row.Count(ctx)
		if err != nil {
			return false, err
		}
		got = count
		if exact {
			return count == want, nil
		}
		return count >= want, nil
	})
	if browser.ErrTimeout.Has(err) {
		list.page.Log().Debug("listing did not converge",
			zap.Stringer("row", row),
			zap.Int("got", got),
			zap.Int("want", want),
			zap.Duration("waited", time.Since(start)))
		return browser.ErrTimeout.New("%s: got %d rows, want %d", row, got, want)
	}
	return err
}
