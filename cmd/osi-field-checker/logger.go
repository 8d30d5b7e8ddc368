package main

/*
#include <stdlib.h>
#include "fmi2.h"

static void callLogger(fmi2CallbackLogger fn, fmi2ComponentEnvironment env, fmi2String name,
		fmi2Status status, fmi2String category, fmi2String msg) {
	if (fn != NULL) {
		fn(env, name, status, category, "%s", msg);
	}
}
*/
import "C"

import (
	"unsafe"

	"github.com/banshee-data/osi-field-checker/internal/fmu"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
)

// hostLogger forwards component log records to the logger callback the
// host passed at instantiation.
type hostLogger struct {
	fn   C.fmi2CallbackLogger
	env  C.fmi2ComponentEnvironment
	name *C.char
}

func newHostLogger(functions *C.fmi2CallbackFunctions, name string) *hostLogger {
	if functions == nil || functions.logger == nil {
		return nil
	}
	return &hostLogger{
		fn:   functions.logger,
		env:  functions.componentEnvironment,
		name: C.CString(name),
	}
}

func (l *hostLogger) sink() monitoring.Sink {
	if l == nil {
		return nil
	}
	return func(level monitoring.Level, category monitoring.Category, msg string) {
		status := fmu.StatusOK
		if level == monitoring.LevelWarning {
			status = fmu.StatusWarning
		}
		cCategory := C.CString(string(category))
		cMsg := C.CString(msg)
		defer C.free(unsafe.Pointer(cCategory))
		defer C.free(unsafe.Pointer(cMsg))
		C.callLogger(l.fn, l.env, l.name, C.fmi2Status(status), cCategory, cMsg)
	}
}

func (l *hostLogger) free() {
	if l == nil {
		return
	}
	C.free(unsafe.Pointer(l.name))
	l.name = nil
}
