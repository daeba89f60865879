// Package habit holds the pure domain core: the entry status cycle and the
// weekly completion calculator. Nothing in this package touches the database
// or the network, so the same functions serve live rounds and history views.
package habit

import (
	"slices"

	"github.com/tphakala/habitwheel/internal/errors"
)

// Status is the state of one category on one calendar day.
type Status string

const (
	StatusEmpty Status = "EMPTY"
	StatusHalf  Status = "HALF"
	StatusDone  Status = "DONE"
	StatusOff   Status = "OFF"
	StatusTreat Status = "TREAT"
	StatusSick  Status = "SICK"
)

// baseCycle is always present; TREAT and SICK are appended per category.
var baseCycle = []Status{StatusEmpty, StatusHalf, StatusDone, StatusOff}

// AllStatuses lists every status the store may hold, cycle membership aside.
var AllStatuses = []Status{StatusEmpty, StatusHalf, StatusDone, StatusOff, StatusTreat, StatusSick}

// ParseStatus normalizes a raw string to a known status, EMPTY when unknown.
func ParseStatus(raw string) Status {
	s := Status(raw)
	if slices.Contains(AllStatuses, s) {
		return s
	}
	return StatusEmpty
}

// Cycle returns the effective status cycle for a category. Order is fixed:
// EMPTY, HALF, DONE, OFF, then TREAT if allowed, then SICK if allowed.
func Cycle(allowTreat, allowSick bool) []Status {
	cycle := slices.Clone(baseCycle)
	if allowTreat {
		cycle = append(cycle, StatusTreat)
	}
	if allowSick {
		cycle = append(cycle, StatusSick)
	}
	return cycle
}

// Next returns the status following current in the cycle, wrapping to the
// start. A current status that is no longer a member of the cycle (the
// category's treat/sick setting changed after the entry was written) resolves
// to the first element, EMPTY, rather than failing.
func Next(current Status, cycle []Status) Status {
	idx := slices.Index(cycle, current)
	if idx < 0 {
		return cycle[0]
	}
	return cycle[(idx+1)%len(cycle)]
}

// ValidateStatus checks that status is a member of the category's effective
// cycle, for the explicit "set" operation.
func ValidateStatus(status Status, cycle []Status) error {
	if !slices.Contains(cycle, status) {
		return errors.Newf("invalid status %q for this category", status).
			Component("habit").
			Category(errors.CategoryValidation).
			Context("status", string(status)).
			Build()
	}
	return nil
}
