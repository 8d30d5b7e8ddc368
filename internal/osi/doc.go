// Package osi models the part of the ASAM OSI SensorData message that the
// field checker inspects, and encodes it in protobuf wire format.
//
// Only the moving-object branch is decoded into typed fields. Everything else
// in the message, at every level, is kept as raw unknown fields and written
// back unchanged on Marshal, so a decode/encode cycle forwards a message
// without losing content. Optional sub-records are pointers: nil means the
// field was absent on the wire, which is distinct from a present record whose
// values are all zero.
package osi
