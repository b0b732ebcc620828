// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/zeebo/errs"
)

// ErrRegistry is returned when a page object declares an invalid locator.
var ErrRegistry = errs.Class("locator registry")

// Registry declares the named locators of a page object. Declarations never
// return nil; problems are collected and reported by Err, so a page object
// constructor can declare everything and then fail once.
type Registry struct {
	page     *Page
	names    []string
	locators map[string]*Locator
	errs     errs.Group
}

// NewRegistry creates a registry for page.
func NewRegistry(page *Page) *Registry {
	return &Registry{
		page:     page,
		locators: map[string]*Locator{},
	}
}

// ID declares a stable locator for an element id.
func (registry *Registry) ID(name, id string) *Locator {
	if strings.TrimSpace(id) == "" {
		registry.errs.Add(ErrRegistry.New("%s: empty id for %q", registry.page.screen, name))
	}
	return registry.add(name, registry.page.ByID(id))
}

// CSS declares a stable locator for a CSS selector.
func (registry *Registry) CSS(name, selector string) *Locator {
	registry.validate(name, selector)
	return registry.add(name, registry.page.Locate(selector))
}

// Role declares a stable locator for an ARIA role and accessible name.
func (registry *Registry) Role(name, role, accessibleName string) *Locator {
	if role == "" {
		registry.errs.Add(ErrRegistry.New("%s: empty role for %q", registry.page.screen, name))
	}
	return registry.add(name, registry.page.GetByRole(role, accessibleName))
}

// Placeholder declares a stable locator for a placeholder text.
func (registry *Registry) Placeholder(name, text string) *Locator {
	if text == "" {
		registry.errs.Add(ErrRegistry.New("%s: empty placeholder for %q", registry.page.screen, name))
	}
	return registry.add(name, registry.page.GetByPlaceholder(text))
}

// Structural declares a best-effort locator addressing the index-th match of
// selector. Use it only for controls without a stable id.
func (registry *Registry) Structural(name, selector string, index int) *Locator {
	registry.validate(name, selector)
	if index < 0 {
		registry.errs.Add(ErrRegistry.New("%s: negative index for %q", registry.page.screen, name))
		index = 0
	}
	return registry.add(name, registry.page.Locate(selector).Nth(index))
}

// Get returns a declared locator.
func (registry *Registry) Get(name string) (*Locator, bool) {
	loc, ok := registry.locators[name]
	return loc, ok
}

// Names returns the declared names in declaration order.
func (registry *Registry) Names() []string {
	return append([]string(nil), registry.names...)
}

// Err returns all declaration problems.
func (registry *Registry) Err() error {
	return registry.errs.Err()
}

func (registry *Registry) validate(name, selector string) {
	if strings.TrimSpace(selector) == "" {
		registry.errs.Add(ErrRegistry.New("%s: empty selector for %q", registry.page.screen, name))
		return
	}
	if _, err := cascadia.Compile(selector); err != nil {
		registry.errs.Add(ErrRegistry.New("%s: invalid selector %q for %q: %v", registry.page.screen, selector, name, err))
	}
}

func (registry *Registry) add(name string, loc *Locator) *Locator {
	if name == "" {
		registry.errs.Add(ErrRegistry.New("%s: unnamed locator %s", registry.page.screen, loc))
	}
	if _, exists := registry.locators[name]; exists {
		registry.errs.Add(ErrRegistry.New("%s: duplicate locator %q", registry.page.screen, name))
	}
	registry.names = append(registry.names, name)
	registry.locators[name] = loc
	return loc
}
