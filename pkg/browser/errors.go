// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/errs"
)

var (
	// Error is the default browser error class.
	Error = errs.Class("browser")
	// ErrTargetNotFound is returned when a locator did not resolve within its wait budget.
	ErrTargetNotFound = errs.Class("target not found")
	// ErrStale is returned by drivers when an element handle no longer matches the document.
	ErrStale = errs.Class("stale element")
	// ErrNotInteractable is returned by drivers when an element is attached
	// but cannot receive input yet, e.g. it is covered or still invisible.
	ErrNotInteractable = errs.Class("element not interactable")
	// ErrTimeout is returned when a condition wait runs out of time.
	ErrTimeout = errs.Class("wait timeout")
)

// TargetError describes an interaction that could not find its target.
type TargetError struct {
	Screen string
	Action string
	Query  string
	Waited time.Duration
	Cause  error
}

// Error implements error.
func (err *TargetError) Error() string {
	msg := fmt.Sprintf("%s %s on %q after %s", err.Action, err.Query, err.Screen, err.Waited.Round(time.Millisecond))
	if err.Cause != nil {
		msg += ": " + err.Cause.Error()
	}
	return msg
}

// Unwrap returns the last error observed while polling.
func (err *TargetError) Unwrap() error { return err.Cause }

// IsTargetNotFound reports whether err means that an element never resolved.
// Stale element handles are treated the same way.
func IsTargetNotFound(err error) bool {
	return ErrTargetNotFound.Has(err) || ErrStale.Has(err)
}

// retryable reports whether an interaction may succeed on a later attempt.
func retryable(err error) bool {
	return IsTargetNotFound(err) || ErrNotInteractable.Has(err)
}

// AsTargetError extracts the target details from err.
func AsTargetError(err error) (*TargetError, bool) {
	var target *TargetError
	ok := errors.As(err, &target)
	return target, ok
}
