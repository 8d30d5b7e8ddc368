package fmu

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// Lifecycle states.
const (
	StateInstantiated       = "instantiated"
	StateInitializationMode = "initialization_mode"
	StateStepMode           = "step_mode"
	StateTerminated         = "terminated"
)

// Lifecycle events.
const (
	EventEnterInitialization = "enter_initialization"
	EventExitInitialization  = "exit_initialization"
	EventTerminate           = "terminate"
	EventReset               = "reset"
)

func lifecycleEvents() fsm.Events {
	return fsm.Events{
		{Name: EventEnterInitialization, Src: []string{StateInstantiated, StateInitializationMode}, Dst: StateInitializationMode},
		{Name: EventExitInitialization, Src: []string{StateInitializationMode}, Dst: StateStepMode},
		{Name: EventTerminate, Src: []string{StateStepMode}, Dst: StateTerminated},
		{Name: EventReset, Src: []string{StateInstantiated, StateInitializationMode, StateStepMode, StateTerminated}, Dst: StateInstantiated},
	}
}

// fire runs event on the state machine. A transition to the state the
// machine is already in counts as success.
func (c *Component) fire(event string) error {
	err := c.fsm.Event(context.Background(), event)
	if err == nil {
		return nil
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) && noTransition.Err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s in state %s", ErrInvalidState, event, c.fsm.Current())
}

// State returns the current lifecycle state.
func (c *Component) State() string { return c.fsm.Current() }
