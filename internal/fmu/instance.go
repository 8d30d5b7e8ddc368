package fmu

import (
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
	"github.com/banshee-data/osi-field-checker/internal/scalar"
)

// Instance is the set of operations a host adapter forwards to.
type Instance interface {
	SetDebugLogging(on bool, categories []string) error
	SetupExperiment(toleranceDefined bool, tolerance, startTime float64, stopTimeDefined bool, stopTime float64) error
	EnterInitializationMode() error
	ExitInitializationMode() error
	DoStep(currentTime, stepSize float64) error
	CancelStep() error
	Terminate() error
	Reset() error
	FreeInstance()

	GetReal(refs []scalar.Ref, out []float64) error
	GetInteger(refs []scalar.Ref, out []int32) error
	GetBoolean(refs []scalar.Ref, out []bool) error
	GetString(refs []scalar.Ref, out []string) error
	SetReal(refs []scalar.Ref, values []float64) error
	SetInteger(refs []scalar.Ref, values []int32) error
	SetBoolean(refs []scalar.Ref, values []bool) error
	SetString(refs []scalar.Ref, values []string) error

	Logger() *monitoring.Logger
}

var _ Instance = (*Component)(nil)
