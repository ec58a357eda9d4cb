package orderflow

import (
	"errors"
	"fmt"
)

const (
	StateUnconfirmed = "UNCONFIRMED"
	StateConfirmed   = "CONFIRMED"
	StateCompleted   = "COMPLETED"
	StateCancelled   = "CANCELLED"
)

// Flow is the canonical ordering used for the monotonic transition rule:
// a transition is legal only when the target index is not smaller than the
// current one. CANCELLED sits last so it stays reachable from every active
// state; the terminal check keeps it absorbing.
var Flow = []string{StateUnconfirmed, StateConfirmed, StateCompleted, StateCancelled}

var (
	ErrUnknownState      = errors.New("unknown order state")
	ErrInvalidWorkflow   = errors.New("order state outside workflow")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrTerminalState     = errors.New("cancelled order cannot change state")
)

func Known(name string) bool {
	return Index(name) >= 0
}

func Index(name string) int {
	for i, s := range Flow {
		if s == name {
			return i
		}
	}
	return -1
}

// Terminal states are the ones that make an order eligible for opinions.
func Terminal(name string) bool {
	return name == StateCompleted || name == StateCancelled
}

func Validate(current, target string) error {
	if current == StateCancelled {
		return ErrTerminalState
	}
	if !Known(target) {
		return fmt.Errorf("%w: %s", ErrUnknownState, target)
	}
	cur, tgt := Index(current), Index(target)
	if cur < 0 || tgt < 0 {
		return ErrInvalidWorkflow
	}
	if tgt < cur {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, target)
	}
	return nil
}
