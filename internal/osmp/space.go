package osmp

import (
	"errors"

	"github.com/banshee-data/osi-field-checker/internal/addr"
)

var (
	// ErrNullAddress is returned when a non-empty read targets address zero.
	ErrNullAddress = errors.New("null buffer address")
	// ErrUnknownAddress is returned by Registry for addresses it never issued.
	ErrUnknownAddress = errors.New("address not registered")
	// ErrShortRegion is returned when a read runs past the registered region.
	ErrShortRegion = errors.New("read exceeds registered region")
)

// AddressSpace resolves host addresses to memory and makes component
// buffers addressable by the host.
type AddressSpace interface {
	// Width is the address width handles are encoded with.
	Width() addr.Width
	// Read returns size bytes starting at address. The slice may alias
	// foreign memory and must not be retained past the call that produced
	// the address.
	Read(address uint64, size int) ([]byte, error)
	// Expose returns the address of buf and keeps buf reachable until
	// Release. An empty buf has address zero.
	Expose(buf []byte) (uint64, error)
	// Release ends the exposure started by Expose. Releasing zero is a no-op.
	Release(address uint64)
}
