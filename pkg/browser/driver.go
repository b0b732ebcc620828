// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package browser contains the driver-agnostic page and locator layer used
// by the console page objects.
//
// A Driver is the minimal capability set the automation needs from a real
// browser (rod, playwright) or from the simulated console. Everything above
// it (locators, waits, registries) is implemented once in this package.
package browser

import (
	"context"
	"fmt"

	"github.com/spacemonkeygo/monkit/v3"
)

var mon = monkit.Package()

// Kind identifies how a Query is resolved.
type Kind string

const (
	// KindCSS resolves a CSS selector.
	KindCSS Kind = "css"
	// KindRole resolves an ARIA role with an accessible name.
	KindRole Kind = "role"
	// KindPlaceholder resolves form controls by their placeholder text.
	KindPlaceholder Kind = "placeholder"
)

// Query describes which elements a locator matches.
type Query struct {
	Kind     Kind
	Selector string
	Role     string
	// Name is the accessible name for KindRole and the placeholder text for
	// KindPlaceholder.
	Name string
}

// String implements fmt.Stringer.
func (q Query) String() string {
	switch q.Kind {
	case KindRole:
		return fmt.Sprintf("role=%s[name=%q]", q.Role, q.Name)
	case KindPlaceholder:
		return fmt.Sprintf("placeholder=%q", q.Name)
	default:
		return q.Selector
	}
}

// Driver is the browser capability set consumed by pages and locators.
//
// Query must not fail when nothing matches: it returns an empty slice.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	Query(ctx context.Context, query Query) ([]Element, error)

	StorageState(ctx context.Context) (*StorageState, error)
	SetStorageState(ctx context.Context, state *StorageState) error

	Close() error
}

// Element is a resolved element handle. It is only valid until the next
// render of its screen; callers should re-resolve through a Locator.
type Element interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	Text(ctx context.Context) (string, error)
}
