// Package osmp implements the OSI Sensor Model Packaging buffer handoff.
//
// A serialized message crosses the co-simulation boundary as three integer
// parameters: size, address high word and address low word. The Exchange
// reads input messages from host memory described by one such triple and
// publishes output messages through another. Output buffers come in two
// generations: the buffer handed to the host on one step stays untouched
// until the step after next, when its generation is recycled.
//
// Memory access goes through an AddressSpace. NativeMemory reads real process
// memory and pins published buffers; Registry is a managed stand-in that
// hands out synthetic addresses and is used by the replay harness and tests.
package osmp
