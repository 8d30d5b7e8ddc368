package osmp

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/banshee-data/osi-field-checker/internal/addr"
)

// NativeMemory is the AddressSpace of the running process. Published buffers
// are pinned so their address stays valid while the host holds it.
type NativeMemory struct {
	pins map[uint64]*runtime.Pinner
}

// NewNativeMemory returns an empty NativeMemory.
func NewNativeMemory() *NativeMemory {
	return &NativeMemory{pins: make(map[uint64]*runtime.Pinner)}
}

// Width implements AddressSpace.
func (m *NativeMemory) Width() addr.Width { return addr.Native }

// Read implements AddressSpace. The returned slice aliases host memory.
func (m *NativeMemory) Read(address uint64, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if address == 0 {
		return nil, ErrNullAddress
	}
	if uint64(uintptr(address)) != address {
		return nil, fmt.Errorf("address %#x exceeds native width: %w", address, addr.ErrNotRepresentable)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(address))), size), nil
}

// Expose implements AddressSpace.
func (m *NativeMemory) Expose(buf []byte) (uint64, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	p := &buf[0]
	address := uint64(uintptr(unsafe.Pointer(p)))
	if _, ok := m.pins[address]; ok {
		return address, nil
	}
	pinner := &runtime.Pinner{}
	pinner.Pin(p)
	m.pins[address] = pinner
	return address, nil
}

// Release implements AddressSpace.
func (m *NativeMemory) Release(address uint64) {
	if pinner, ok := m.pins[address]; ok {
		pinner.Unpin()
		delete(m.pins, address)
	}
}

// Pinned returns the number of buffers currently exposed.
func (m *NativeMemory) Pinned() int { return len(m.pins) }
