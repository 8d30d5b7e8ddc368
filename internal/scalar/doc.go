// Package scalar holds the fixed-capacity parameter banks that a co-simulation
// host reads and writes by value reference.
//
// A Store carries four independent banks (reals, integers, booleans and
// strings). Each bank has a capacity fixed at construction time and rejects
// any reference at or beyond it with ErrOutOfRange; nothing is ever clamped.
// Batch accessors process references in order and stop at the first bad one,
// leaving the effects on earlier references in place.
package scalar
