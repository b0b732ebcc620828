// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario

import (
	"errors"
	"fmt"

	"github.com/zeebo/errs"
)

// ErrAssertion is returned when an observed value differs from the
// expected one.
var ErrAssertion = errs.Class("assertion failed")

// AssertionError holds the compared values of a failed assertion.
type AssertionError struct {
	Subject  string
	Expected string
	Actual   string
}

// Error implements error.
func (err *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s", err.Subject, err.Summary())
}

// Summary describes the mismatch without the subject.
func (err *AssertionError) Summary() string {
	return fmt.Sprintf("expected %s, got %s", err.Expected, err.Actual)
}

// AsAssertion extracts assertion details from err.
func AsAssertion(err error) (*AssertionError, bool) {
	var assertion *AssertionError
	ok := errors.As(err, &assertion)
	return assertion, ok
}

// Equal returns an ErrAssertion when actual differs from expected.
func Equal[T comparable](subject string, expected, actual T) error {
	if expected == actual {
		return nil
	}
	return ErrAssertion.Wrap(&AssertionError{
		Subject:  subject,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	})
}
