// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package pages contains the page objects of the object-storage console.
// Each page object declares its locators through a browser.Registry and
// exposes semantic actions that synchronize on observable conditions.
package pages

import (
	"strings"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
)

var (
	mon = monkit.Package()

	// Error is the page object error class.
	Error = errs.Class("pages")
)

// Config describes where the console lives and how long its screens take
// to reflect changes.
type Config struct {
	URL         string `help:"base url of the console" releaseDefault:"" devDefault:"http://127.0.0.1:10100" testDefault:"http://console.test"`
	LoginPath   string `help:"path of the login screen" default:"/login"`
	BucketsPath string `help:"path of the bucket list" default:"/buckets"`

	RefreshSettle  time.Duration `help:"fixed delay after refreshing the bucket list before polling it" default:"0s"`
	ListingTimeout time.Duration `help:"how long a bucket list change may take to become visible" default:"30s" testDefault:"2s"`
}

// LoginURL returns the absolute url of the login screen.
func (config Config) LoginURL() string { return config.join(config.LoginPath) }

// BucketsURL returns the absolute url of the bucket list.
func (config Config) BucketsURL() string { return config.join(config.BucketsPath) }

func (config Config) join(path string) string {
	return strings.TrimSuffix(config.URL, "/") + "/" + strings.TrimPrefix(path, "/")
}
