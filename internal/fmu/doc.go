// Package fmu implements the OSI field checker as an FMI 2.0 co-simulation
// component.
//
// A Component is driven by its host through a fixed sequence: enter and
// exit initialization mode, any number of steps, then terminate. On exit
// from initialization the component loads the list of required field paths.
// Every step it reads the SensorData the host handed over, checks the
// required fields, forwards the message unchanged and records which fields
// were missing. Terminate hands the accumulated findings to the configured
// reporters.
//
// The C calling convention lives in cmd/osi-field-checker; this package only
// deals in Go values and errors. StatusOf maps an error to the status code the
// host expects.
package fmu
