package checker

import (
	"sort"

	"github.com/banshee-data/osi-field-checker/internal/osi"
)

// Field paths understood by Check.
const (
	PathMovingObject                = "moving_object"
	PathBase                        = "moving_object.base"
	PathBaseDimension               = "moving_object.base.dimension"
	PathBasePosition                = "moving_object.base.position"
	PathBaseOrientation             = "moving_object.base.orientation"
	PathBaseVelocity                = "moving_object.base.velocity"
	PathBaseAcceleration            = "moving_object.base.acceleration"
	PathBaseOrientationRate         = "moving_object.base.orientation_rate"
	PathBaseOrientationAcceleration = "moving_object.base.orientation_acceleration"
	PathBaseBasePolygon             = "moving_object.base.base_polygon"
)

// missingFunc reports whether a path is violated by msg.
type missingFunc func(msg *osi.SensorData) bool

// baseMissing builds a rule that fires when the first moving object has a
// base record for which absent returns true.
func baseMissing(absent func(b *osi.BaseMoving) bool) missingFunc {
	return func(msg *osi.SensorData) bool {
		base := msg.FirstMovingObject().GetBase()
		return base != nil && absent(base)
	}
}

var rules = map[string]missingFunc{
	PathMovingObject: func(msg *osi.SensorData) bool {
		return len(msg.MovingObject) == 0
	},
	PathBase: func(msg *osi.SensorData) bool {
		first := msg.FirstMovingObject()
		return first != nil && !first.HasBase()
	},
	PathBaseDimension:               baseMissing(func(b *osi.BaseMoving) bool { return b.Dimension == nil }),
	PathBasePosition:                baseMissing(func(b *osi.BaseMoving) bool { return b.Position == nil }),
	PathBaseOrientation:             baseMissing(func(b *osi.BaseMoving) bool { return b.Orientation == nil }),
	PathBaseVelocity:                baseMissing(func(b *osi.BaseMoving) bool { return b.Velocity == nil }),
	PathBaseAcceleration:            baseMissing(func(b *osi.BaseMoving) bool { return b.Acceleration == nil }),
	PathBaseOrientationRate:         baseMissing(func(b *osi.BaseMoving) bool { return b.OrientationRate == nil }),
	PathBaseOrientationAcceleration: baseMissing(func(b *osi.BaseMoving) bool { return b.OrientationAcceleration == nil }),
	PathBaseBasePolygon:             baseMissing(func(b *osi.BaseMoving) bool { return len(b.BasePolygon) == 0 }),
}

// KnownPaths lists every path Check can evaluate, sorted.
func KnownPaths() []string {
	out := make([]string, 0, len(rules))
	for p := range rules {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Check returns the members of expected that msg violates. Only the first
// moving object is inspected.
func Check(msg *osi.SensorData, expected FieldSet) FieldSet {
	missing := make(FieldSet)
	for path := range expected {
		if rule, ok := rules[path]; ok && rule(msg) {
			missing.Add(path)
		}
	}
	return missing
}
