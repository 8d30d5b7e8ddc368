// Package addr converts native memory addresses to and from the pair of
// 32-bit integers used to hand them across the co-simulation boundary.
//
// On a 64-bit address space the high word travels in Hi and the low word in
// Lo. On a 32-bit address space Hi is always zero and the whole address
// lives in Lo. Both words are the raw bit patterns reinterpreted as int32, so
// addresses at or above 2^31 show up as negative integers on the wire.
package addr

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// ErrNotRepresentable is returned when an address does not fit the width.
var ErrNotRepresentable = errors.New("address not representable at this width")

// Width is the size in bits of a platform address.
type Width uint8

const (
	Width32 Width = 32
	Width64 Width = 64
)

// Native is the address width of the running platform.
const Native = Width(unsafe.Sizeof(uintptr(0)) * 8)

// Handle is an address split into two integer parameters.
type Handle struct {
	Hi int32
	Lo int32
}

// IsZero reports whether both halves are zero, the "no data" handle.
func (h Handle) IsZero() bool { return h.Hi == 0 && h.Lo == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%08X %08X", uint32(h.Hi), uint32(h.Lo))
}

// Max returns the largest address representable at w.
func (w Width) Max() uint64 {
	if w == Width32 {
		return math.MaxUint32
	}
	return math.MaxUint64
}

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool { return w == Width32 || w == Width64 }

// Encode splits p into a Handle.
func (w Width) Encode(p uint64) (Handle, error) {
	switch w {
	case Width64:
		return Handle{Hi: int32(uint32(p >> 32)), Lo: int32(uint32(p))}, nil
	case Width32:
		if p > math.MaxUint32 {
			return Handle{}, fmt.Errorf("encode %#x at %d bits: %w", p, w, ErrNotRepresentable)
		}
		return Handle{Lo: int32(uint32(p))}, nil
	default:
		return Handle{}, fmt.Errorf("unsupported address width %d", w)
	}
}

// Decode joins a Handle back into an address. At 32 bits the high half is
// ignored.
func (w Width) Decode(h Handle) uint64 {
	if w == Width32 {
		return uint64(uint32(h.Lo))
	}
	return uint64(uint32(h.Hi))<<32 | uint64(uint32(h.Lo))
}
