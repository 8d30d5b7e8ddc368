package osmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/banshee-data/osi-field-checker/internal/addr"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
	"github.com/banshee-data/osi-field-checker/internal/osi"
	"github.com/banshee-data/osi-field-checker/internal/scalar"
)

var testLayout = Layout{
	In:  Slots{BaseLo: 0, BaseHi: 1, Size: 2},
	Out: Slots{BaseLo: 3, BaseHi: 4, Size: 5},
}

func newTestExchange(t *testing.T, space AddressSpace) (*Exchange, *scalar.Store) {
	t.Helper()
	store := scalar.NewStore(scalar.Capacity{Reals: 1, Integers: 7, Booleans: 1, Strings: 1})
	ex, err := NewExchange(store, space, testLayout, monitoring.NewLogger(false))
	require.NoError(t, err)
	return ex, store
}

func message(x float64) *osi.SensorData {
	return &osi.SensorData{MovingObject: []*osi.DetectedMovingObject{
		{Base: &osi.BaseMoving{Position: &osi.Vector3d{X: proto.Float64(x)}}},
	}}
}

func outputHandle(store *scalar.Store, width addr.Width) (uint64, int) {
	h := addr.Handle{Hi: store.MustInteger(testLayout.Out.BaseHi), Lo: store.MustInteger(testLayout.Out.BaseLo)}
	return width.Decode(h), int(store.MustInteger(testLayout.Out.Size))
}

func placeInput(t *testing.T, reg *Registry, store *scalar.Store, data []byte) {
	t.Helper()
	address, err := reg.Register(data)
	require.NoError(t, err)
	h, err := reg.Width().Encode(address)
	require.NoError(t, err)
	store.MustSetInteger(testLayout.In.BaseHi, h.Hi)
	store.MustSetInteger(testLayout.In.BaseLo, h.Lo)
	store.MustSetInteger(testLayout.In.Size, int32(len(data)))
}

func TestNewExchange_RejectsBadLayout(t *testing.T) {
	store := scalar.NewStore(scalar.Capacity{Integers: 5})
	_, err := NewExchange(store, NewRegistry(addr.Width64), testLayout, monitoring.NewLogger(false))
	assert.ErrorIs(t, err, scalar.ErrOutOfRange)
}

func TestReadInput(t *testing.T) {
	for _, width := range []addr.Width{addr.Width32, addr.Width64} {
		reg := NewRegistry(width)
		ex, store := newTestExchange(t, reg)

		placeInput(t, reg, store, message(7).Marshal())
		got, err := ex.ReadInput()
		require.NoError(t, err)
		require.NotNil(t, got.FirstMovingObject().GetBase().Position)
		assert.Equal(t, 7.0, *got.FirstMovingObject().GetBase().Position.X)
	}
}

func TestReadInput_NoInput(t *testing.T) {
	reg := NewRegistry(addr.Width64)
	ex, store := newTestExchange(t, reg)

	_, err := ex.ReadInput()
	assert.ErrorIs(t, err, ErrNoInput)

	store.MustSetInteger(testLayout.In.Size, -4)
	_, err = ex.ReadInput()
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestReadInput_Failures(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		reg := NewRegistry(addr.Width64)
		ex, store := newTestExchange(t, reg)
		placeInput(t, reg, store, []byte{0x6A, 0x7F})
		_, err := ex.ReadInput()
		assert.ErrorIs(t, err, osi.ErrMalformed)
	})

	t.Run("unknown address", func(t *testing.T) {
		reg := NewRegistry(addr.Width64)
		ex, store := newTestExchange(t, reg)
		store.MustSetInteger(testLayout.In.BaseLo, 0x1234)
		store.MustSetInteger(testLayout.In.Size, 10)
		_, err := ex.ReadInput()
		assert.ErrorIs(t, err, ErrUnknownAddress)
	})

	t.Run("size beyond region", func(t *testing.T) {
		reg := NewRegistry(addr.Width64)
		ex, store := newTestExchange(t, reg)
		placeInput(t, reg, store, message(1).Marshal())
		store.MustSetInteger(testLayout.In.Size, 1000)
		_, err := ex.ReadInput()
		assert.ErrorIs(t, err, ErrShortRegion)
	})

	t.Run("null address", func(t *testing.T) {
		reg := NewRegistry(addr.Width64)
		ex, store := newTestExchange(t, reg)
		store.MustSetInteger(testLayout.In.Size, 3)
		_, err := ex.ReadInput()
		assert.ErrorIs(t, err, ErrNullAddress)
	})
}

func TestPublishOutput_BufferSurvivesOneCycle(t *testing.T) {
	reg := NewRegistry(addr.Width64)
	ex, store := newTestExchange(t, reg)

	first := message(1)
	require.NoError(t, ex.PublishOutput(first))
	addr1, size1 := outputHandle(store, reg.Width())
	require.NotZero(t, addr1)
	want1 := first.Marshal()
	require.Equal(t, len(want1), size1)

	require.NoError(t, ex.PublishOutput(message(2)))
	addr2, size2 := outputHandle(store, reg.Width())
	assert.NotEqual(t, addr1, addr2)

	// The first buffer is still readable and unchanged.
	got1, err := reg.Read(addr1, size1)
	require.NoError(t, err)
	assert.Equal(t, want1, got1)

	// The third publish recycles the first generation.
	require.NoError(t, ex.PublishOutput(message(3)))
	_, err = reg.Read(addr1, size1)
	assert.ErrorIs(t, err, ErrUnknownAddress)

	got2, err := reg.Read(addr2, size2)
	require.NoError(t, err)
	assert.Equal(t, message(2).Marshal(), got2)
	assert.Equal(t, 2, reg.Live())
}

func TestPublishOutput_Width32(t *testing.T) {
	reg := NewRegistry(addr.Width32)
	ex, store := newTestExchange(t, reg)

	require.NoError(t, ex.PublishOutput(message(5)))
	assert.Zero(t, store.MustInteger(testLayout.Out.BaseHi))
	assert.Negative(t, store.MustInteger(testLayout.Out.BaseLo), "addresses above 2^31 wrap to negative")

	address, size := outputHandle(store, addr.Width32)
	data, err := reg.Read(address, size)
	require.NoError(t, err)
	got, err := osi.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 5.0, *got.FirstMovingObject().GetBase().Position.X)
}

func TestPublishOutput_EmptyMessage(t *testing.T) {
	reg := NewRegistry(addr.Width64)
	ex, store := newTestExchange(t, reg)

	require.NoError(t, ex.PublishOutput(&osi.SensorData{}))
	address, size := outputHandle(store, reg.Width())
	assert.Zero(t, address)
	assert.Zero(t, size)
}

func TestResetOutput(t *testing.T) {
	reg := NewRegistry(addr.Width64)
	ex, store := newTestExchange(t, reg)

	require.NoError(t, ex.PublishOutput(message(1)))
	address, _ := outputHandle(store, reg.Width())
	ex.ResetOutput()

	assert.Zero(t, store.MustInteger(testLayout.Out.Size))
	assert.Zero(t, store.MustInteger(testLayout.Out.BaseHi))
	assert.Zero(t, store.MustInteger(testLayout.Out.BaseLo))

	// The buffer itself is left alone.
	_, err := reg.Read(address, 1)
	assert.NoError(t, err)
}

func TestClose_ReleasesGenerations(t *testing.T) {
	reg := NewRegistry(addr.Width64)
	ex, _ := newTestExchange(t, reg)
	require.NoError(t, ex.PublishOutput(message(1)))
	require.NoError(t, ex.PublishOutput(message(2)))
	require.Equal(t, 2, reg.Live())

	ex.Close()
	assert.Zero(t, reg.Live())
}

func TestNativeMemory_PublishAndRead(t *testing.T) {
	mem := NewNativeMemory()
	ex, store := newTestExchange(t, mem)

	msg := message(42)
	require.NoError(t, ex.PublishOutput(msg))
	assert.Equal(t, 1, mem.Pinned())

	address, size := outputHandle(store, addr.Native)
	data, err := mem.Read(address, size)
	require.NoError(t, err)
	assert.Equal(t, msg.Marshal(), data)

	// Feed the published buffer straight back in as input.
	store.MustSetInteger(testLayout.In.BaseHi, store.MustInteger(testLayout.Out.BaseHi))
	store.MustSetInteger(testLayout.In.BaseLo, store.MustInteger(testLayout.Out.BaseLo))
	store.MustSetInteger(testLayout.In.Size, store.MustInteger(testLayout.Out.Size))
	got, err := ex.ReadInput()
	require.NoError(t, err)
	assert.Equal(t, 42.0, *got.FirstMovingObject().GetBase().Position.X)

	ex.Close()
	assert.Zero(t, mem.Pinned())
}

func TestNativeMemory_NullRead(t *testing.T) {
	mem := NewNativeMemory()
	_, err := mem.Read(0, 4)
	assert.ErrorIs(t, err, ErrNullAddress)
	b, err := mem.Read(0, 0)
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestRegistry_WrapsSkippingLiveAddresses(t *testing.T) {
	reg := NewRegistry(addr.Width32)
	first, err := reg.Register([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x8000_0000), first)

	// Jump to the last slot of the 32-bit range.
	reg.next = 0xFFFF_E000
	last, err := reg.Register([]byte{2})
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFF_E000), last)

	wrapped, err := reg.Register([]byte{3})
	require.NoError(t, err)
	assert.Equal(t, first+registryStride, wrapped, "live base address is skipped")

	reg.Release(first)
	reg.next = reg.base
	reused, err := reg.Register([]byte{4})
	require.NoError(t, err)
	assert.Equal(t, first, reused)
	assert.Equal(t, 3, reg.Live())
}

func TestPublishOutput_Width32LongRun(t *testing.T) {
	reg := NewRegistry(addr.Width32)
	ex, store := newTestExchange(t, reg)
	// Start close to the top so the run crosses the wrap.
	reg.next = 0xFFFF_0000

	for i := range 64 {
		placeInput(t, reg, store, message(float64(i)).Marshal())
		_, err := ex.ReadInput()
		require.NoError(t, err)
		// The host drops its input buffer once the step is done.
		reg.Release(reg.Width().Decode(addr.Handle{
			Hi: store.MustInteger(testLayout.In.BaseHi),
			Lo: store.MustInteger(testLayout.In.BaseLo),
		}))
		require.NoError(t, ex.PublishOutput(message(float64(i))))
	}
	assert.LessOrEqual(t, reg.Live(), 2)
}
