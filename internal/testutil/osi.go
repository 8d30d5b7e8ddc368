package testutil

import (
	"google.golang.org/protobuf/proto"

	"github.com/banshee-data/osi-field-checker/internal/osi"
)

// CompleteBase returns a base record with every sub-record present and a
// four-point polygon.
func CompleteBase() *osi.BaseMoving {
	return &osi.BaseMoving{
		Dimension:               &osi.Dimension3d{Length: proto.Float64(4.2), Width: proto.Float64(1.8), Height: proto.Float64(1.5)},
		Position:                &osi.Vector3d{X: proto.Float64(12), Y: proto.Float64(3.5), Z: proto.Float64(0)},
		Orientation:             &osi.Orientation3d{Roll: proto.Float64(0), Pitch: proto.Float64(0), Yaw: proto.Float64(0.05)},
		Velocity:                &osi.Vector3d{X: proto.Float64(13.9), Y: proto.Float64(0), Z: proto.Float64(0)},
		Acceleration:            &osi.Vector3d{X: proto.Float64(0.2), Y: proto.Float64(0), Z: proto.Float64(0)},
		OrientationRate:         &osi.Orientation3d{Yaw: proto.Float64(0.01)},
		OrientationAcceleration: &osi.Orientation3d{Yaw: proto.Float64(0)},
		BasePolygon: []*osi.Vector2d{
			{X: proto.Float64(-2.1), Y: proto.Float64(-0.9)},
			{X: proto.Float64(2.1), Y: proto.Float64(-0.9)},
			{X: proto.Float64(2.1), Y: proto.Float64(0.9)},
			{X: proto.Float64(-2.1), Y: proto.Float64(0.9)},
		},
	}
}

// SensorDataWith wraps objects into a SensorData message.
func SensorDataWith(objects ...*osi.DetectedMovingObject) *osi.SensorData {
	return &osi.SensorData{MovingObject: objects}
}

// CompleteSensorData returns a message with one moving object that passes
// every field check.
func CompleteSensorData() *osi.SensorData {
	return SensorDataWith(&osi.DetectedMovingObject{Base: CompleteBase()})
}

// SensorDataWithBase returns a message with one moving object whose base
// record is CompleteBase modified by strip.
func SensorDataWithBase(strip func(b *osi.BaseMoving)) *osi.SensorData {
	base := CompleteBase()
	if strip != nil {
		strip(base)
	}
	return SensorDataWith(&osi.DetectedMovingObject{Base: base})
}
