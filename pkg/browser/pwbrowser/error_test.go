// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pwbrowser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"storj.io/console-uitest/pkg/browser"
)

func TestConvertError(t *testing.T) {
	require.NoError(t, convertError(nil))

	err := convertError(fmt.Errorf("locator.click: %w", playwright.ErrTimeout))
	require.True(t, browser.ErrStale.Has(err))
	require.True(t, browser.IsTargetNotFound(err))

	err = convertError(errors.New("target closed"))
	require.True(t, Error.Has(err))
	require.False(t, browser.IsTargetNotFound(err))
}
