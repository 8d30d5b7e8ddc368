package osmp

import (
	"fmt"

	"github.com/banshee-data/osi-field-checker/internal/addr"
)

// registryStride is the gap between consecutive synthetic addresses. Regions
// are looked up by their exact base, so it only has to keep addresses unique.
const registryStride = 0x1000

// Registry is a managed AddressSpace. It maps synthetic addresses to byte
// slices. Addresses are handed out in increasing order and only reused after
// the range wraps, so a stale handle fails loudly instead of reading someone
// else's data. A registered address is never handed out twice.
type Registry struct {
	width   addr.Width
	base    uint64
	next    uint64
	regions map[uint64][]byte
}

// NewRegistry returns a Registry issuing addresses at the given width. The
// first address sits above 2^31 (32-bit) or 2^32 (64-bit) so both halves of
// the handle and the sign bit of the low word get exercised.
func NewRegistry(width addr.Width) *Registry {
	base := uint64(0x8000_0000)
	if width == addr.Width64 {
		base = 0x7F00_8000_0000
	}
	return &Registry{width: width, base: base, next: base, regions: make(map[uint64][]byte)}
}

// Width implements AddressSpace.
func (r *Registry) Width() addr.Width { return r.width }

// Register stores data and returns its address. It is how a host places an
// input message into the space.
func (r *Registry) Register(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	start := r.next
	for {
		address := r.next
		r.next += registryStride
		if r.next > r.width.Max()-registryStride {
			r.next = r.base
		}
		if _, live := r.regions[address]; !live {
			r.regions[address] = data
			return address, nil
		}
		if r.next == start {
			return 0, fmt.Errorf("registry exhausted, %d regions live: %w", len(r.regions), addr.ErrNotRepresentable)
		}
	}
}

// Read implements AddressSpace.
func (r *Registry) Read(address uint64, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if address == 0 {
		return nil, ErrNullAddress
	}
	data, ok := r.regions[address]
	if !ok {
		return nil, fmt.Errorf("read %#x: %w", address, ErrUnknownAddress)
	}
	if size > len(data) {
		return nil, fmt.Errorf("read %d bytes at %#x, region holds %d: %w", size, address, len(data), ErrShortRegion)
	}
	return data[:size], nil
}

// Expose implements AddressSpace.
func (r *Registry) Expose(buf []byte) (uint64, error) {
	return r.Register(buf)
}

// Release implements AddressSpace.
func (r *Registry) Release(address uint64) {
	delete(r.regions, address)
}

// Live reports how many regions are currently registered.
func (r *Registry) Live() int { return len(r.regions) }
