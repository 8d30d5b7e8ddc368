package main

/*
#include "fmi2.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/banshee-data/osi-field-checker/internal/fmu"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
	"github.com/banshee-data/osi-field-checker/internal/scalar"
)

var errNullInstance = fmt.Errorf("%w: null component", fmu.ErrInvalidState)

func status(s fmu.Status) C.fmi2Status { return C.fmi2Status(s) }

func refs(vr *C.fmi2ValueReference, nvr C.size_t) []scalar.Ref {
	if nvr == 0 {
		return nil
	}
	return unsafe.Slice((*scalar.Ref)(unsafe.Pointer(vr)), int(nvr))
}

// with runs fn against the instance behind c.
func with(c C.fmi2Component, op string, fn func(*instance) error) C.fmi2Status {
	inst := lookup(c)
	if inst == nil {
		monitoring.Logf("[%s] warning: %s: %v", monitoring.CategoryFMI, op, errNullInstance)
		return status(fmu.StatusError)
	}
	return status(inst.result(op, fn(inst)))
}

//export fmi2SetDebugLogging
func fmi2SetDebugLogging(c C.fmi2Component, loggingOn C.fmi2Boolean, nCategories C.size_t, categories *C.fmi2String) C.fmi2Status {
	return with(c, "fmi2SetDebugLogging", func(inst *instance) error {
		var names []string
		if nCategories > 0 {
			for _, s := range unsafe.Slice(categories, int(nCategories)) {
				names = append(names, goString(s))
			}
		}
		if _, unknown := knownCategories(names); len(unknown) > 0 {
			inst.comp.Logger().Warnf(monitoring.CategoryFMI, "ignoring unknown log categories %v", unknown)
		}
		return inst.comp.SetDebugLogging(cBool(loggingOn), names)
	})
}

//export fmi2SetupExperiment
func fmi2SetupExperiment(c C.fmi2Component, toleranceDefined C.fmi2Boolean, tolerance C.fmi2Real,
	startTime C.fmi2Real, stopTimeDefined C.fmi2Boolean, stopTime C.fmi2Real) C.fmi2Status {
	return with(c, "fmi2SetupExperiment", func(inst *instance) error {
		return inst.comp.SetupExperiment(cBool(toleranceDefined), float64(tolerance), float64(startTime),
			cBool(stopTimeDefined), float64(stopTime))
	})
}

//export fmi2EnterInitializationMode
func fmi2EnterInitializationMode(c C.fmi2Component) C.fmi2Status {
	return with(c, "fmi2EnterInitializationMode", func(inst *instance) error {
		return inst.comp.EnterInitializationMode()
	})
}

//export fmi2ExitInitializationMode
func fmi2ExitInitializationMode(c C.fmi2Component) C.fmi2Status {
	return with(c, "fmi2ExitInitializationMode", func(inst *instance) error {
		return inst.comp.ExitInitializationMode()
	})
}

//export fmi2Terminate
func fmi2Terminate(c C.fmi2Component) C.fmi2Status {
	return with(c, "fmi2Terminate", func(inst *instance) error {
		return inst.comp.Terminate()
	})
}

//export fmi2Reset
func fmi2Reset(c C.fmi2Component) C.fmi2Status {
	return with(c, "fmi2Reset", func(inst *instance) error {
		return inst.comp.Reset()
	})
}

//export fmi2DoStep
func fmi2DoStep(c C.fmi2Component, currentCommunicationPoint C.fmi2Real, communicationStepSize C.fmi2Real,
	noSetFMUStatePriorToCurrentPoint C.fmi2Boolean) C.fmi2Status {
	return with(c, "fmi2DoStep", func(inst *instance) error {
		return inst.comp.DoStep(float64(currentCommunicationPoint), float64(communicationStepSize))
	})
}

//export fmi2CancelStep
func fmi2CancelStep(c C.fmi2Component) C.fmi2Status {
	return with(c, "fmi2CancelStep", func(inst *instance) error {
		return inst.comp.CancelStep()
	})
}

//export fmi2GetReal
func fmi2GetReal(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2Real) C.fmi2Status {
	return with(c, "fmi2GetReal", func(inst *instance) error {
		out := make([]float64, int(nvr))
		err := inst.comp.GetReal(refs(vr, nvr), out)
		if nvr > 0 {
			dst := unsafe.Slice(value, int(nvr))
			for i, v := range out {
				dst[i] = C.fmi2Real(v)
			}
		}
		return err
	})
}

//export fmi2GetInteger
func fmi2GetInteger(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2Integer) C.fmi2Status {
	return with(c, "fmi2GetInteger", func(inst *instance) error {
		out := make([]int32, int(nvr))
		err := inst.comp.GetInteger(refs(vr, nvr), out)
		if nvr > 0 {
			dst := unsafe.Slice(value, int(nvr))
			for i, v := range out {
				dst[i] = C.fmi2Integer(v)
			}
		}
		return err
	})
}

//export fmi2GetBoolean
func fmi2GetBoolean(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2Boolean) C.fmi2Status {
	return with(c, "fmi2GetBoolean", func(inst *instance) error {
		out := make([]bool, int(nvr))
		err := inst.comp.GetBoolean(refs(vr, nvr), out)
		if nvr > 0 {
			dst := unsafe.Slice(value, int(nvr))
			for i, v := range out {
				dst[i] = C.fmi2False
				if v {
					dst[i] = C.fmi2True
				}
			}
		}
		return err
	})
}

//export fmi2GetString
func fmi2GetString(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2String) C.fmi2Status {
	return with(c, "fmi2GetString", func(inst *instance) error {
		out := make([]string, int(nvr))
		err := inst.comp.GetString(refs(vr, nvr), out)
		if nvr > 0 {
			dst := unsafe.Slice(value, int(nvr))
			for i, p := range inst.strings.replace(out) {
				dst[i] = C.fmi2String(p)
			}
		}
		return err
	})
}

//export fmi2SetReal
func fmi2SetReal(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2Real) C.fmi2Status {
	return with(c, "fmi2SetReal", func(inst *instance) error {
		in := make([]float64, int(nvr))
		if nvr > 0 {
			for i, v := range unsafe.Slice(value, int(nvr)) {
				in[i] = float64(v)
			}
		}
		return inst.comp.SetReal(refs(vr, nvr), in)
	})
}

//export fmi2SetInteger
func fmi2SetInteger(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2Integer) C.fmi2Status {
	return with(c, "fmi2SetInteger", func(inst *instance) error {
		in := make([]int32, int(nvr))
		if nvr > 0 {
			for i, v := range unsafe.Slice(value, int(nvr)) {
				in[i] = int32(v)
			}
		}
		return inst.comp.SetInteger(refs(vr, nvr), in)
	})
}

//export fmi2SetBoolean
func fmi2SetBoolean(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2Boolean) C.fmi2Status {
	return with(c, "fmi2SetBoolean", func(inst *instance) error {
		in := make([]bool, int(nvr))
		if nvr > 0 {
			for i, v := range unsafe.Slice(value, int(nvr)) {
				in[i] = cBool(v)
			}
		}
		return inst.comp.SetBoolean(refs(vr, nvr), in)
	})
}

//export fmi2SetString
func fmi2SetString(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t, value *C.fmi2String) C.fmi2Status {
	return with(c, "fmi2SetString", func(inst *instance) error {
		in := make([]string, int(nvr))
		if nvr > 0 {
			for i, v := range unsafe.Slice(value, int(nvr)) {
				in[i] = goString(v)
			}
		}
		return inst.comp.SetString(refs(vr, nvr), in)
	})
}

func unsupported(c C.fmi2Component, op string) C.fmi2Status {
	return with(c, op, func(*instance) error {
		return fmt.Errorf("%s: %w", op, fmu.ErrUnsupported)
	})
}

func discarded(c C.fmi2Component, op string) C.fmi2Status {
	return with(c, op, func(*instance) error {
		return fmt.Errorf("%s: %w", op, fmu.ErrDiscard)
	})
}

//export fmi2GetFMUstate
func fmi2GetFMUstate(c C.fmi2Component, state *C.fmi2FMUstate) C.fmi2Status {
	return unsupported(c, "fmi2GetFMUstate")
}

//export fmi2SetFMUstate
func fmi2SetFMUstate(c C.fmi2Component, state C.fmi2FMUstate) C.fmi2Status {
	return unsupported(c, "fmi2SetFMUstate")
}

//export fmi2FreeFMUstate
func fmi2FreeFMUstate(c C.fmi2Component, state *C.fmi2FMUstate) C.fmi2Status {
	return unsupported(c, "fmi2FreeFMUstate")
}

//export fmi2SerializedFMUstateSize
func fmi2SerializedFMUstateSize(c C.fmi2Component, state C.fmi2FMUstate, size *C.size_t) C.fmi2Status {
	return unsupported(c, "fmi2SerializedFMUstateSize")
}

//export fmi2SerializeFMUstate
func fmi2SerializeFMUstate(c C.fmi2Component, state C.fmi2FMUstate, serializedState *C.fmi2Byte, size C.size_t) C.fmi2Status {
	return unsupported(c, "fmi2SerializeFMUstate")
}

//export fmi2DeSerializeFMUstate
func fmi2DeSerializeFMUstate(c C.fmi2Component, serializedState *C.fmi2Byte, size C.size_t, state *C.fmi2FMUstate) C.fmi2Status {
	return unsupported(c, "fmi2DeSerializeFMUstate")
}

//export fmi2GetDirectionalDerivative
func fmi2GetDirectionalDerivative(c C.fmi2Component, vUnknownRef *C.fmi2ValueReference, nUnknown C.size_t,
	vKnownRef *C.fmi2ValueReference, nKnown C.size_t, dvKnown *C.fmi2Real, dvUnknown *C.fmi2Real) C.fmi2Status {
	return unsupported(c, "fmi2GetDirectionalDerivative")
}

//export fmi2SetRealInputDerivatives
func fmi2SetRealInputDerivatives(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t,
	order *C.fmi2Integer, value *C.fmi2Real) C.fmi2Status {
	return unsupported(c, "fmi2SetRealInputDerivatives")
}

//export fmi2GetRealOutputDerivatives
func fmi2GetRealOutputDerivatives(c C.fmi2Component, vr *C.fmi2ValueReference, nvr C.size_t,
	order *C.fmi2Integer, value *C.fmi2Real) C.fmi2Status {
	return unsupported(c, "fmi2GetRealOutputDerivatives")
}

//export fmi2GetStatus
func fmi2GetStatus(c C.fmi2Component, s C.fmi2StatusKind, value *C.fmi2Status) C.fmi2Status {
	return discarded(c, "fmi2GetStatus")
}

//export fmi2GetRealStatus
func fmi2GetRealStatus(c C.fmi2Component, s C.fmi2StatusKind, value *C.fmi2Real) C.fmi2Status {
	return discarded(c, "fmi2GetRealStatus")
}

//export fmi2GetIntegerStatus
func fmi2GetIntegerStatus(c C.fmi2Component, s C.fmi2StatusKind, value *C.fmi2Integer) C.fmi2Status {
	return discarded(c, "fmi2GetIntegerStatus")
}

//export fmi2GetBooleanStatus
func fmi2GetBooleanStatus(c C.fmi2Component, s C.fmi2StatusKind, value *C.fmi2Boolean) C.fmi2Status {
	return discarded(c, "fmi2GetBooleanStatus")
}

//export fmi2GetStringStatus
func fmi2GetStringStatus(c C.fmi2Component, s C.fmi2StatusKind, value *C.fmi2String) C.fmi2Status {
	return discarded(c, "fmi2GetStringStatus")
}
