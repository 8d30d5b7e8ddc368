// Command osi-field-checker is built as a shared library with
// -buildmode=c-shared and packaged as an FMI 2.0 co-simulation FMU. It exports
// the fmi2* entry points and forwards each call to an fmu.Component.
package main

/*
#include <stdlib.h>
#include "fmi2.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/banshee-data/osi-field-checker/internal/config"
	"github.com/banshee-data/osi-field-checker/internal/fmu"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
	"github.com/banshee-data/osi-field-checker/internal/version"
)

var (
	typesPlatform = C.CString("default")
	fmiVersion    = C.CString("2.0")
)

// newComponentHandle stores a cgo.Handle for inst in C memory so the host
// gets a stable opaque pointer.
func newComponentHandle(inst *instance) C.fmi2Component {
	p := C.malloc(C.size_t(unsafe.Sizeof(C.uintptr_t(0))))
	*(*C.uintptr_t)(p) = C.uintptr_t(cgo.NewHandle(inst))
	return C.fmi2Component(p)
}

func lookup(c C.fmi2Component) *instance {
	if c == nil {
		return nil
	}
	h := cgo.Handle(*(*C.uintptr_t)(c))
	inst, _ := h.Value().(*instance)
	return inst
}

func releaseComponentHandle(c C.fmi2Component) {
	h := cgo.Handle(*(*C.uintptr_t)(c))
	h.Delete()
	C.free(unsafe.Pointer(c))
}

func cBool(b C.fmi2Boolean) bool { return b != C.fmi2False }

func goString(s C.fmi2String) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

//export fmi2GetTypesPlatform
func fmi2GetTypesPlatform() C.fmi2String {
	return typesPlatform
}

//export fmi2GetVersion
func fmi2GetVersion() C.fmi2String {
	return fmiVersion
}

//export fmi2Instantiate
func fmi2Instantiate(instanceName C.fmi2String, fmuType C.fmi2Type, fmuGUID C.fmi2String,
	fmuResourceLocation C.fmi2String, functions *C.fmi2CallbackFunctions,
	visible C.fmi2Boolean, loggingOn C.fmi2Boolean) C.fmi2Component {
	name := goString(instanceName)
	logger := newHostLogger(functions, name)

	if fmuType != C.fmi2CoSimulation {
		warnHost(logger, "only co-simulation is supported")
		logger.free()
		return nil
	}
	resourceDir, err := config.ResourceDir(goString(fmuResourceLocation))
	if err != nil {
		warnHost(logger, err.Error())
		logger.free()
		return nil
	}

	comp, err := fmu.New(fmu.Options{
		InstanceName: name,
		ResourceDir:  resourceDir,
		LoggingOn:    cBool(loggingOn),
		Sink:         logger.sink(),
	})
	if err != nil {
		warnHost(logger, err.Error())
		logger.free()
		return nil
	}
	comp.Logger().Logf(monitoring.CategoryFMI, "%s (GUID %s)", version.String(), goString(fmuGUID))
	return newComponentHandle(&instance{comp: comp, logger: logger})
}

func warnHost(l *hostLogger, msg string) {
	if sink := l.sink(); sink != nil {
		sink(monitoring.LevelWarning, monitoring.CategoryFMI, msg)
		return
	}
	monitoring.Logf("[%s] warning: %s", monitoring.CategoryFMI, msg)
}

//export fmi2FreeInstance
func fmi2FreeInstance(c C.fmi2Component) {
	inst := lookup(c)
	if inst == nil {
		return
	}
	inst.comp.FreeInstance()
	inst.strings.free()
	inst.logger.free()
	releaseComponentHandle(c)
}

// A c-shared build still needs an empty main.
func main() {}
