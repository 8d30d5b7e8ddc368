// Command osmp-replay plays a recording of serialized SensorData messages
// through the field checker the way a co-simulation host would, and exits
// with status 1 when a required field was missing.
//
// The recording is a sequence of messages, each prefixed with its length as
// a protobuf varint.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
