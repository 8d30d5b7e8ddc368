package fmu

import (
	"github.com/banshee-data/osi-field-checker/internal/osmp"
	"github.com/banshee-data/osi-field-checker/internal/scalar"
)

// Value references published in modelDescription.xml.
const (
	IntegerSensorDataInBaseLo  scalar.Ref = 0
	IntegerSensorDataInBaseHi  scalar.Ref = 1
	IntegerSensorDataInSize    scalar.Ref = 2
	IntegerSensorDataOutBaseLo scalar.Ref = 3
	IntegerSensorDataOutBaseHi scalar.Ref = 4
	IntegerSensorDataOutSize   scalar.Ref = 5
	IntegerCount               scalar.Ref = 6

	BooleanValid scalar.Ref = 0

	StringCheckFile scalar.Ref = 0
)

// Capacity is the size of each scalar bank.
var Capacity = scalar.Capacity{
	Reals:    1,
	Integers: 7,
	Booleans: 1,
	Strings:  1,
}

// BufferLayout places the SensorData handles in the integer bank.
var BufferLayout = osmp.Layout{
	In: osmp.Slots{
		BaseLo: IntegerSensorDataInBaseLo,
		BaseHi: IntegerSensorDataInBaseHi,
		Size:   IntegerSensorDataInSize,
	},
	Out: osmp.Slots{
		BaseLo: IntegerSensorDataOutBaseLo,
		BaseHi: IntegerSensorDataOutBaseHi,
		Size:   IntegerSensorDataOutSize,
	},
}
