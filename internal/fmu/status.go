package fmu

import (
	"errors"
	"fmt"
)

// Status mirrors fmi2Status.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusDiscard
	StatusError
	StatusFatal
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "Warning"
	case StatusDiscard:
		return "Discard"
	case StatusError:
		return "Error"
	case StatusFatal:
		return "Fatal"
	case StatusPending:
		return "Pending"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	// ErrInvalidState is returned when an operation is called in a state
	// that does not allow it.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrUnsupported is returned by optional capabilities the component
	// does not implement.
	ErrUnsupported = errors.New("capability not supported")
	// ErrDiscard marks a request the component declines without failing,
	// such as status enquiries.
	ErrDiscard = errors.New("request discarded")
)

// StatusOf maps an operation result to the status reported to the host.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrDiscard):
		return StatusDiscard
	default:
		return StatusError
	}
}
