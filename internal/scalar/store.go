package scalar

// Capacity describes the size of each bank.
type Capacity struct {
	Reals    int
	Integers int
	Booleans int
	Strings  int
}

// Store is the set of four scalar banks exchanged with the host.
type Store struct {
	Reals    Bank[float64]
	Integers Bank[int32]
	Booleans Bank[bool]
	Strings  Bank[string]
}

// NewStore allocates a zeroed store with the given capacities.
func NewStore(c Capacity) *Store {
	return &Store{
		Reals:    newBank[float64](KindReal, c.Reals),
		Integers: newBank[int32](KindInteger, c.Integers),
		Booleans: newBank[bool](KindBoolean, c.Booleans),
		Strings:  newBank[string](KindString, c.Strings),
	}
}

// Capacity reports the bank sizes.
func (s *Store) Capacity() Capacity {
	return Capacity{
		Reals:    s.Reals.Len(),
		Integers: s.Integers.Len(),
		Booleans: s.Booleans.Len(),
		Strings:  s.Strings.Len(),
	}
}

// Zero resets every slot of every bank to its zero value.
func (s *Store) Zero() {
	s.Reals.zero()
	s.Integers.zero()
	s.Booleans.zero()
	s.Strings.zero()
}

// MustInteger reads an integer slot whose reference is known to be in range.
// It panics otherwise, so it is only meant for the component's own layout
// constants.
func (s *Store) MustInteger(ref Ref) int32 {
	v, err := s.Integers.Get(ref)
	if err != nil {
		panic(err)
	}
	return v
}

// MustSetInteger is the write counterpart of MustInteger.
func (s *Store) MustSetInteger(ref Ref, v int32) {
	if err := s.Integers.Set(ref, v); err != nil {
		panic(err)
	}
}
