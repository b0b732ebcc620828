// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pages

import (
	"context"

	"storj.io/console-uitest/pkg/browser"
)

// CreateBucket is the bucket creation form.
type CreateBucket struct {
	page *browser.Page

	Name   *browser.Locator
	Submit *browser.Locator
}

// NewCreateBucket declares the creation form locators.
func NewCreateBucket(page *browser.Page) (*CreateBucket, error) {
	page = page.Screen("create-bucket")
	registry := browser.NewRegistry(page)
	form := &CreateBucket{
		page:   page,
		Name:   registry.Placeholder("name", "Enter Bucket Name"),
		Submit: registry.Role("submit", "button", "Create Bucket"),
	}
	return form, registry.Err()
}

// Create fills in the bucket name and submits the form.
func (form *CreateBucket) Create(ctx context.Context, name string) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := form.Name.Fill(ctx, name); err != nil {
		return err
	}
	return form.Submit.Click(ctx)
}
