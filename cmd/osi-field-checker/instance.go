package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/banshee-data/osi-field-checker/internal/fmu"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
)

// instance is what a component handle points at.
type instance struct {
	comp    fmu.Instance
	logger  *hostLogger
	strings stringCache
}

// result maps err to a status and reports failures to the host.
func (i *instance) result(op string, err error) fmu.Status {
	status := fmu.StatusOf(err)
	if status != fmu.StatusOK {
		i.comp.Logger().Warnf(monitoring.CategoryFMI, "%s: %v", op, err)
	}
	return status
}

// stringCache owns the C strings returned by fmi2GetString. They stay valid
// until the next fmi2GetString or fmi2FreeInstance on the same instance.
type stringCache struct {
	held []*C.char
}

func (s *stringCache) replace(values []string) []*C.char {
	s.free()
	for _, v := range values {
		s.held = append(s.held, C.CString(v))
	}
	return s.held
}

func (s *stringCache) free() {
	for _, p := range s.held {
		C.free(unsafe.Pointer(p))
	}
	s.held = s.held[:0]
}
