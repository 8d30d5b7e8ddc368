package scalar

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned for any value reference beyond a bank's capacity.
var ErrOutOfRange = errors.New("value reference out of range")

// ErrLengthMismatch is returned by batch accessors when the reference and value
// slices differ in length.
var ErrLengthMismatch = errors.New("reference and value counts differ")

// Kind identifies one of the four scalar banks.
type Kind int

const (
	KindReal Kind = iota
	KindInteger
	KindBoolean
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Ref is a stable value reference assigned at design time.
type Ref = uint32

// Bank is a bounded, reference-indexed array of one scalar type.
type Bank[T any] struct {
	kind   Kind
	values []T
}

func newBank[T any](kind Kind, capacity int) Bank[T] {
	return Bank[T]{kind: kind, values: make([]T, capacity)}
}

// Len returns the bank capacity.
func (b *Bank[T]) Len() int { return len(b.values) }

func (b *Bank[T]) check(ref Ref) error {
	if uint64(ref) >= uint64(len(b.values)) {
		return fmt.Errorf("%s reference %d (capacity %d): %w", b.kind, ref, len(b.values), ErrOutOfRange)
	}
	return nil
}

// Get returns the value stored at ref.
func (b *Bank[T]) Get(ref Ref) (T, error) {
	if err := b.check(ref); err != nil {
		var zero T
		return zero, err
	}
	return b.values[ref], nil
}

// Set stores v at ref.
func (b *Bank[T]) Set(ref Ref, v T) error {
	if err := b.check(ref); err != nil {
		return err
	}
	b.values[ref] = v
	return nil
}

// GetBatch fills out[i] with the value at refs[i]. It stops at the first
// out-of-range reference; entries already copied into out stay copied.
func (b *Bank[T]) GetBatch(refs []Ref, out []T) error {
	if len(refs) != len(out) {
		return fmt.Errorf("%s get: %d refs, %d values: %w", b.kind, len(refs), len(out), ErrLengthMismatch)
	}
	for i, ref := range refs {
		if err := b.check(ref); err != nil {
			return err
		}
		out[i] = b.values[ref]
	}
	return nil
}

// SetBatch stores in[i] at refs[i]. It stops at the first out-of-range
// reference; earlier writes are kept.
func (b *Bank[T]) SetBatch(refs []Ref, in []T) error {
	if len(refs) != len(in) {
		return fmt.Errorf("%s set: %d refs, %d values: %w", b.kind, len(refs), len(in), ErrLengthMismatch)
	}
	for i, ref := range refs {
		if err := b.check(ref); err != nil {
			return err
		}
		b.values[ref] = in[i]
	}
	return nil
}

func (b *Bank[T]) zero() {
	clear(b.values)
}
