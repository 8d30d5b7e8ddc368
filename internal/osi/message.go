package osi

// Field numbers from osi_sensordata.proto, osi_detectedobject.proto and
// osi_common.proto.
const (
	fieldSensorDataTimestamp    = 2
	fieldSensorDataMovingObject = 13

	fieldTimestampSeconds = 1
	fieldTimestampNanos   = 2

	fieldMovingObjectBase = 2

	fieldBaseDimension               = 1
	fieldBasePosition                = 2
	fieldBaseOrientation             = 3
	fieldBaseVelocity                = 4
	fieldBaseAcceleration            = 5
	fieldBaseOrientationRate         = 6
	fieldBaseBasePolygon             = 7
	fieldBaseOrientationAcceleration = 8
)

// SensorData is the per-step perception message exchanged with the host.
type SensorData struct {
	Timestamp    *Timestamp
	MovingObject []*DetectedMovingObject

	unknown []byte
}

// Timestamp is a simulation time point.
type Timestamp struct {
	Seconds *int64
	Nanos   *uint32

	unknown []byte
}

// DetectedMovingObject is one entry of SensorData.moving_object.
type DetectedMovingObject struct {
	Base *BaseMoving

	unknown []byte
}

// BaseMoving holds the kinematic base record of a moving object.
type BaseMoving struct {
	Dimension               *Dimension3d
	Position                *Vector3d
	Orientation             *Orientation3d
	Velocity                *Vector3d
	Acceleration            *Vector3d
	OrientationRate         *Orientation3d
	BasePolygon             []*Vector2d
	OrientationAcceleration *Orientation3d

	unknown []byte
}

// Dimension3d is a bounding-box size.
type Dimension3d struct {
	Length *float64
	Width  *float64
	Height *float64

	unknown []byte
}

// Vector3d is a cartesian 3D vector.
type Vector3d struct {
	X *float64
	Y *float64
	Z *float64

	unknown []byte
}

// Vector2d is a cartesian 2D vector.
type Vector2d struct {
	X *float64
	Y *float64

	unknown []byte
}

// Orientation3d is a roll/pitch/yaw triple.
type Orientation3d struct {
	Roll  *float64
	Pitch *float64
	Yaw   *float64

	unknown []byte
}

// GetBase returns the base record or nil. Safe on a nil receiver.
func (o *DetectedMovingObject) GetBase() *BaseMoving {
	if o == nil {
		return nil
	}
	return o.Base
}

// HasBase reports whether the base record was present.
func (o *DetectedMovingObject) HasBase() bool { return o.GetBase() != nil }

// FirstMovingObject returns moving_object[0], or nil when the collection is
// empty.
func (s *SensorData) FirstMovingObject() *DetectedMovingObject {
	if s == nil || len(s.MovingObject) == 0 {
		return nil
	}
	return s.MovingObject[0]
}

// AsSeconds returns the timestamp as floating-point seconds, zero when unset.
func (t *Timestamp) AsSeconds() float64 {
	if t == nil {
		return 0
	}
	var sec int64
	var nanos uint32
	if t.Seconds != nil {
		sec = *t.Seconds
	}
	if t.Nanos != nil {
		nanos = *t.Nanos
	}
	return float64(sec) + float64(nanos)/1e9
}

// HasUnknown reports whether the message carries fields this package does
// not decode.
func (s *SensorData) HasUnknown() bool { return len(s.unknown) > 0 }
