// Package mode implements the interaction state machine that gates which
// editor operations are legal.
package mode

import (
	"fmt"
	"sync"
)

// Mode is the single current interaction state.
type Mode int

const (
	Normal Mode = iota
	Search
	Replace
	ReplaceAll
	Help
	ErrorView
)

var names = [...]string{"NORMAL", "SEARCH", "REPLACE", "REPLACE ALL", "HELP", "ERRORS"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(names) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return names[m]
}

// StateError is returned when an operation is requested in a mode that forbids it.
type StateError struct {
	Mode Mode
	Op   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed in %s mode", e.Op, e.Mode)
}

// ChangeFunc observes transitions.
type ChangeFunc func(from, to Mode)

// Controller holds the current mode. Every transition goes through Enter,
// EnterErrorView or Exit.
type Controller struct {
	mu       sync.RWMutex
	current  Mode
	onChange []ChangeFunc
}

// NewController starts in Normal mode.
func NewController() *Controller {
	return &Controller{current: Normal}
}

// OnChange registers an observer called after every transition.
func (c *Controller) OnChange(fn ChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// Current returns the current mode.
func (c *Controller) Current() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Is reports whether the current mode is one of modes.
func (c *Controller) Is(modes ...Mode) bool {
	cur := c.Current()
	for _, m := range modes {
		if m == cur {
			return true
		}
	}
	return false
}

// Require returns a StateError naming op unless the current mode is one of allowed.
func (c *Controller) Require(op string, allowed ...Mode) error {
	if c.Is(allowed...) {
		return nil
	}
	return &StateError{Mode: c.Current(), Op: op}
}

// Enter moves from Normal into Search, Replace, ReplaceAll or Help.
func (c *Controller) Enter(m Mode) error {
	switch m {
	case Search, Replace, ReplaceAll, Help:
	default:
		return &StateError{Mode: c.Current(), Op: "enter " + m.String()}
	}
	return c.transition(m, "enter "+m.String())
}

// EnterErrorView switches to ErrorView. Only a failed run or an explicit
// request to show the last trace does this, both from Normal.
func (c *Controller) EnterErrorView() error {
	return c.transition(ErrorView, "show errors")
}

func (c *Controller) transition(to Mode, op string) error {
	c.mu.Lock()
	from := c.current
	if from != Normal {
		c.mu.Unlock()
		return &StateError{Mode: from, Op: op}
	}
	c.current = to
	observers := append([]ChangeFunc(nil), c.onChange...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(from, to)
	}
	return nil
}

// Exit returns to Normal and reports the mode that was left.
// Exiting Normal is a no-op.
func (c *Controller) Exit() Mode {
	c.mu.Lock()
	from := c.current
	if from == Normal {
		c.mu.Unlock()
		return Normal
	}
	c.current = Normal
	observers := append([]ChangeFunc(nil), c.onChange...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(from, Normal)
	}
	return from
}

// AffordancesEnabled reports whether Save and Open are available.
func (c *Controller) AffordancesEnabled() bool {
	return c.Current() == Normal
}
