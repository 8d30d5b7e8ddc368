package osmp

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/osi-field-checker/internal/addr"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
	"github.com/banshee-data/osi-field-checker/internal/osi"
	"github.com/banshee-data/osi-field-checker/internal/scalar"
)

// ErrNoInput is returned by ReadInput when the host supplied no message.
var ErrNoInput = errors.New("no input message")

// Slots names the three integer references describing one buffer.
type Slots struct {
	BaseLo scalar.Ref
	BaseHi scalar.Ref
	Size   scalar.Ref
}

// Layout places the input and output triples in the integer bank.
type Layout struct {
	In  Slots
	Out Slots
}

type generation struct {
	data    []byte
	address uint64
}

// Exchange moves serialized SensorData between the host and the component.
type Exchange struct {
	store  *scalar.Store
	space  AddressSpace
	layout Layout
	log    *monitoring.Logger

	// gens[cur] is filled by the next publish; gens[cur^1] is the buffer the
	// host was handed last.
	gens [2]generation
	cur  int
}

// NewExchange returns an Exchange reading and writing the handles in store.
// Every slot in layout must be a valid integer reference of store.
func NewExchange(store *scalar.Store, space AddressSpace, layout Layout, log *monitoring.Logger) (*Exchange, error) {
	for _, ref := range []scalar.Ref{layout.In.BaseLo, layout.In.BaseHi, layout.In.Size, layout.Out.BaseLo, layout.Out.BaseHi, layout.Out.Size} {
		if _, err := store.Integers.Get(ref); err != nil {
			return nil, fmt.Errorf("buffer layout: %w", err)
		}
	}
	if !space.Width().Valid() {
		return nil, fmt.Errorf("address space width %d unsupported", space.Width())
	}
	return &Exchange{store: store, space: space, layout: layout, log: log}, nil
}

// ReadInput decodes the message the host placed at the input handle. It
// returns ErrNoInput when the size slot is zero or negative; any other error
// means the buffer could not be read or parsed.
func (e *Exchange) ReadInput() (*osi.SensorData, error) {
	size := e.store.MustInteger(e.layout.In.Size)
	if size <= 0 {
		return nil, ErrNoInput
	}
	h := addr.Handle{
		Hi: e.store.MustInteger(e.layout.In.BaseHi),
		Lo: e.store.MustInteger(e.layout.In.BaseLo),
	}
	if h.IsZero() {
		return nil, fmt.Errorf("read input buffer of %d bytes: %w", size, ErrNullAddress)
	}
	address := e.space.Width().Decode(h)
	e.log.Logf(monitoring.CategoryOSMP, "Got %s, reading from %#x ...", h, address)

	buf, err := e.space.Read(address, int(size))
	if err != nil {
		return nil, fmt.Errorf("read input buffer: %w", err)
	}
	msg, err := osi.Unmarshal(buf)
	if err != nil {
		return nil, fmt.Errorf("parse input buffer: %w", err)
	}
	return msg, nil
}

// PublishOutput serializes msg into the current generation, writes its
// handle and size to the output slots and swaps generations. The buffer
// published here stays intact until the publish after next.
func (e *Exchange) PublishOutput(msg *osi.SensorData) error {
	g := &e.gens[e.cur]
	// This generation was handed out two publishes ago; the host is done
	// with it by now.
	e.space.Release(g.address)
	g.address = 0

	g.data = msg.MarshalAppend(g.data[:0])
	if len(g.data) > math.MaxInt32 {
		return fmt.Errorf("serialized output of %d bytes exceeds size slot", len(g.data))
	}
	address, err := e.space.Expose(g.data)
	if err != nil {
		return fmt.Errorf("expose output buffer: %w", err)
	}
	h, err := e.space.Width().Encode(address)
	if err != nil {
		e.space.Release(address)
		return fmt.Errorf("encode output address: %w", err)
	}
	g.address = address

	e.store.MustSetInteger(e.layout.Out.BaseHi, h.Hi)
	e.store.MustSetInteger(e.layout.Out.BaseLo, h.Lo)
	e.store.MustSetInteger(e.layout.Out.Size, int32(len(g.data)))
	e.log.Logf(monitoring.CategoryOSMP, "Providing %s, writing from %#x ...", h, address)

	e.cur ^= 1
	return nil
}

// ResetOutput marks the output as empty without touching either buffer.
func (e *Exchange) ResetOutput() {
	e.store.MustSetInteger(e.layout.Out.Size, 0)
	e.store.MustSetInteger(e.layout.Out.BaseHi, 0)
	e.store.MustSetInteger(e.layout.Out.BaseLo, 0)
}

// Close releases both generations. The Exchange must not be used afterwards.
func (e *Exchange) Close() {
	for i := range e.gens {
		e.space.Release(e.gens[i].address)
		e.gens[i] = generation{}
	}
}
