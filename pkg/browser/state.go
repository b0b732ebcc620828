// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// StorageState is a snapshot of cookies and local storage. The JSON layout
// matches the storage state files written by Playwright, so artifacts can be
// shared between drivers.
type StorageState struct {
	Cookies []Cookie `json:"cookies"`
	Origins []Origin `json:"origins"`
}

// Cookie is a browser cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Origin holds the local storage of one origin.
type Origin struct {
	Origin       string      `json:"origin"`
	LocalStorage []NameValue `json:"localStorage"`
}

// NameValue is a local storage entry.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Clone returns a deep copy of the state.
func (state *StorageState) Clone() *StorageState {
	if state == nil {
		return nil
	}
	clone := &StorageState{
		Cookies: append([]Cookie(nil), state.Cookies...),
		Origins: make([]Origin, 0, len(state.Origins)),
	}
	for _, origin := range state.Origins {
		clone.Origins = append(clone.Origins, Origin{
			Origin:       origin.Origin,
			LocalStorage: append([]NameValue(nil), origin.LocalStorage...),
		})
	}
	return clone
}

// Cookie returns the named cookie.
func (state *StorageState) Cookie(name string) (Cookie, bool) {
	if state == nil {
		return Cookie{}, false
	}
	for _, cookie := range state.Cookies {
		if cookie.Name == name {
			return cookie, true
		}
	}
	return Cookie{}, false
}

// Empty reports whether the state holds neither cookies nor local storage.
func (state *StorageState) Empty() bool {
	if state == nil {
		return true
	}
	if len(state.Cookies) > 0 {
		return false
	}
	for _, origin := range state.Origins {
		if len(origin.LocalStorage) > 0 {
			return false
		}
	}
	return true
}

// InitScript returns a script that restores the local storage of the origin
// when a document of that origin loads.
func (origin Origin) InitScript() (string, error) {
	items, err := json.Marshal(origin.LocalStorage)
	if err != nil {
		return "", Error.Wrap(err)
	}
	return fmt.Sprintf(`if (location.origin === %s) { for (const item of %s) { localStorage.setItem(item.name, item.value); } }`,
		strconv.Quote(origin.Origin), items), nil
}
