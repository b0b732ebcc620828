// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storj.io/console-uitest/pkg/browser"
	"storj.io/console-uitest/pkg/session"
)

// Phase is the part of a scenario a step belongs to.
type Phase string

// Phases in execution order.
const (
	PhaseSetup    Phase = "setup"
	PhaseStep     Phase = "step"
	PhaseTeardown Phase = "teardown"
)

// String implements fmt.Stringer.
func (phase Phase) String() string { return string(phase) }

// Status is the outcome of a step.
type Status string

// Step outcomes.
const (
	StatusPassed  Status = "ok"
	StatusFailed  Status = "FAIL"
	StatusSkipped Status = "skip"
)

// Event records one executed or skipped step.
type Event struct {
	Phase    Phase
	Step     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Trace is the ordered record of a scenario run.
type Trace struct {
	Scenario string

	mu     sync.Mutex
	events []Event
	err    error
}

// NewTrace creates an empty trace.
func NewTrace(scenario string) *Trace {
	return &Trace{Scenario: scenario}
}

// Events returns the recorded events.
func (trace *Trace) Events() []Event {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	return append([]Event(nil), trace.events...)
}

// Err returns the scenario error.
func (trace *Trace) Err() error {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	return trace.err
}

// Passed reports whether every step succeeded.
func (trace *Trace) Passed() bool { return trace.Err() == nil }

// Duration returns the summed step durations.
func (trace *Trace) Duration() time.Duration {
	var total time.Duration
	for _, event := range trace.Events() {
		total += event.Duration
	}
	return total
}

func (trace *Trace) record(phase Phase, step string, status Status, err error, duration time.Duration) {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	trace.events = append(trace.events, Event{
		Phase:    phase,
		Step:     step,
		Status:   status,
		Err:      err,
		Duration: duration,
	})
}

func (trace *Trace) finish(err error) {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	trace.err = err
}

// String renders the trace without timings, so identical runs render
// identically.
func (trace *Trace) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", trace.Scenario)
	for _, event := range trace.Events() {
		fmt.Fprintf(&b, "%-8s %-4s %s", event.Phase, event.Status, event.Step)
		if event.Err != nil {
			fmt.Fprintf(&b, " (%s)", Classify(event.Err))
		}
		b.WriteByte('\n')
	}
	if trace.Passed() {
		b.WriteString("result: passed\n")
	} else {
		b.WriteString("result: failed\n")
	}
	return b.String()
}

// Classify summarizes err by its failure class.
func Classify(err error) string {
	if assertion, ok := AsAssertion(err); ok {
		return ErrAssertion.New("%s", assertion.Summary()).Error()
	}
	switch {
	case err == nil:
		return "ok"
	case browser.IsTargetNotFound(err):
		return "target not found"
	case session.ErrSetup.Has(err):
		return "authentication setup failed"
	case browser.ErrTimeout.Has(err):
		return "wait timeout"
	case errors.Is(err, context.DeadlineExceeded):
		return "scenario timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
