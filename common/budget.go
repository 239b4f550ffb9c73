package common

import "time"

// Clock reports wall-clock time. The host frame loop supplies one so work can
// be sliced per frame.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the real wall clock.
var SystemClock Clock = systemClock{}

// Budget bounds the amount of incremental work done in one frame. A budget is
// either a wall-clock slice or a fixed number of steps; step budgets keep
// tests and headless runs deterministic.
type Budget struct {
	clock    Clock
	deadline time.Time
	maxSteps int
	steps    int
}

// NewBudget returns a budget that expires slice after now.
func NewBudget(clock Clock, slice time.Duration) *Budget {
	if clock == nil {
		clock = SystemClock
	}
	return &Budget{clock: clock, deadline: clock.Now().Add(slice)}
}

// StepBudget returns a budget allowing exactly n calls to Spend.
func StepBudget(n int) *Budget {
	return &Budget{maxSteps: n}
}

// Spend consumes one unit of work and reports whether it was allowed.
func (b *Budget) Spend() bool {
	if b == nil {
		return false
	}
	if b.clock != nil {
		if !b.clock.Now().Before(b.deadline) {
			return false
		}
		b.steps++
		return true
	}
	if b.steps >= b.maxSteps {
		return false
	}
	b.steps++
	return true
}

// Steps returns the units spent so far.
func (b *Budget) Steps() int {
	if b == nil {
		return 0
	}
	return b.steps
}
