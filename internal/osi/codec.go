package osi

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned when the input is not valid protobuf wire data.
var ErrMalformed = errors.New("malformed protobuf message")

// Unmarshal parses b into a new SensorData.
func Unmarshal(b []byte) (*SensorData, error) {
	s := &SensorData{}
	if err := s.merge(b); err != nil {
		return nil, err
	}
	return s, nil
}

// Marshal encodes s.
func (s *SensorData) Marshal() []byte {
	return s.MarshalAppend(nil)
}

// MarshalAppend appends the encoding of s to b and returns the extended slice.
func (s *SensorData) MarshalAppend(b []byte) []byte {
	if s == nil {
		return b
	}
	if s.Timestamp != nil {
		b = appendMessage(b, fieldSensorDataTimestamp, s.Timestamp.appendTo(nil))
	}
	for _, o := range s.MovingObject {
		b = appendMessage(b, fieldSensorDataMovingObject, o.appendTo(nil))
	}
	return append(b, s.unknown...)
}

// Clone returns a deep copy of s, unknown fields included.
func (s *SensorData) Clone() *SensorData {
	if s == nil {
		return nil
	}
	c, err := Unmarshal(s.Marshal())
	if err != nil {
		// Marshal output of a decoded message always parses.
		panic(fmt.Sprintf("osi: clone: %v", err))
	}
	return c
}

// walk calls fn for every field in b. raw is the complete field including
// its tag; value is the field payload after the tag.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, raw, value []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		m := protowire.ConsumeFieldValue(num, typ, b[n:])
		if m < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(m))
		}
		if err := fn(num, typ, b[:n+m], b[n:n+m]); err != nil {
			return err
		}
		b = b[n+m:]
	}
	return nil
}

func bytesValue(value []byte) []byte {
	v, _ := protowire.ConsumeBytes(value)
	return v
}

func doubleValue(value []byte) *float64 {
	v, _ := protowire.ConsumeFixed64(value)
	f := math.Float64frombits(v)
	return &f
}

func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

func appendDouble(b []byte, num protowire.Number, v *float64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(*v))
}

func (s *SensorData) merge(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, raw, value []byte) error {
		if typ != protowire.BytesType {
			s.unknown = append(s.unknown, raw...)
			return nil
		}
		switch num {
		case fieldSensorDataTimestamp:
			if s.Timestamp == nil {
				s.Timestamp = &Timestamp{}
			}
			return s.Timestamp.merge(bytesValue(value))
		case fieldSensorDataMovingObject:
			o := &DetectedMovingObject{}
			if err := o.merge(bytesValue(value)); err != nil {
				return fmt.Errorf("moving_object[%d]: %w", len(s.MovingObject), err)
			}
			s.MovingObject = append(s.MovingObject, o)
		default:
			s.unknown = append(s.unknown, raw...)
		}
		return nil
	})
}

func (t *Timestamp) merge(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, raw, value []byte) error {
		if typ != protowire.VarintType {
			t.unknown = append(t.unknown, raw...)
			return nil
		}
		v, _ := protowire.ConsumeVarint(value)
		switch num {
		case fieldTimestampSeconds:
			sec := int64(v)
			t.Seconds = &sec
		case fieldTimestampNanos:
			nanos := uint32(v)
			t.Nanos = &nanos
		default:
			t.unknown = append(t.unknown, raw...)
		}
		return nil
	})
}

func (t *Timestamp) appendTo(b []byte) []byte {
	if t.Seconds != nil {
		b = protowire.AppendTag(b, fieldTimestampSeconds, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*t.Seconds))
	}
	if t.Nanos != nil {
		b = protowire.AppendTag(b, fieldTimestampNanos, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*t.Nanos))
	}
	return append(b, t.unknown...)
}

func (o *DetectedMovingObject) merge(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, raw, value []byte) error {
		if num != fieldMovingObjectBase || typ != protowire.BytesType {
			o.unknown = append(o.unknown, raw...)
			return nil
		}
		if o.Base == nil {
			o.Base = &BaseMoving{}
		}
		if err := o.Base.merge(bytesValue(value)); err != nil {
			return fmt.Errorf("base: %w", err)
		}
		return nil
	})
}

func (o *DetectedMovingObject) appendTo(b []byte) []byte {
	if o.Base != nil {
		b = appendMessage(b, fieldMovingObjectBase, o.Base.appendTo(nil))
	}
	return append(b, o.unknown...)
}

func (m *BaseMoving) merge(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, raw, value []byte) error {
		if typ != protowire.BytesType {
			m.unknown = append(m.unknown, raw...)
			return nil
		}
		payload := bytesValue(value)
		switch num {
		case fieldBaseDimension:
			if m.Dimension == nil {
				m.Dimension = &Dimension3d{}
			}
			return m.Dimension.merge(payload)
		case fieldBasePosition:
			if m.Position == nil {
				m.Position = &Vector3d{}
			}
			return m.Position.merge(payload)
		case fieldBaseOrientation:
			if m.Orientation == nil {
				m.Orientation = &Orientation3d{}
			}
			return m.Orientation.merge(payload)
		case fieldBaseVelocity:
			if m.Velocity == nil {
				m.Velocity = &Vector3d{}
			}
			return m.Velocity.merge(payload)
		case fieldBaseAcceleration:
			if m.Acceleration == nil {
				m.Acceleration = &Vector3d{}
			}
			return m.Acceleration.merge(payload)
		case fieldBaseOrientationRate:
			if m.OrientationRate == nil {
				m.OrientationRate = &Orientation3d{}
			}
			return m.OrientationRate.merge(payload)
		case fieldBaseOrientationAcceleration:
			if m.OrientationAcceleration == nil {
				m.OrientationAcceleration = &Orientation3d{}
			}
			return m.OrientationAcceleration.merge(payload)
		case fieldBaseBasePolygon:
			v := &Vector2d{}
			if err := v.merge(payload); err != nil {
				return err
			}
			m.BasePolygon = append(m.BasePolygon, v)
		default:
			m.unknown = append(m.unknown, raw...)
		}
		return nil
	})
}

func (m *BaseMoving) appendTo(b []byte) []byte {
	if m.Dimension != nil {
		b = appendMessage(b, fieldBaseDimension, m.Dimension.appendTo(nil))
	}
	if m.Position != nil {
		b = appendMessage(b, fieldBasePosition, m.Position.appendTo(nil))
	}
	if m.Orientation != nil {
		b = appendMessage(b, fieldBaseOrientation, m.Orientation.appendTo(nil))
	}
	if m.Velocity != nil {
		b = appendMessage(b, fieldBaseVelocity, m.Velocity.appendTo(nil))
	}
	if m.Acceleration != nil {
		b = appendMessage(b, fieldBaseAcceleration, m.Acceleration.appendTo(nil))
	}
	if m.OrientationRate != nil {
		b = appendMessage(b, fieldBaseOrientationRate, m.OrientationRate.appendTo(nil))
	}
	for _, v := range m.BasePolygon {
		b = appendMessage(b, fieldBaseBasePolygon, v.appendTo(nil))
	}
	if m.OrientationAcceleration != nil {
		b = appendMessage(b, fieldBaseOrientationAcceleration, m.OrientationAcceleration.appendTo(nil))
	}
	return append(b, m.unknown...)
}

// mergeDoubles decodes up to three fixed64 doubles numbered 1..3 into dst,
// keeping anything else in unknown.
func mergeDoubles(b []byte, dst []**float64, unknown *[]byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, raw, value []byte) error {
		if typ != protowire.Fixed64Type || num < 1 || int(num) > len(dst) {
			*unknown = append(*unknown, raw...)
			return nil
		}
		*dst[num-1] = doubleValue(value)
		return nil
	})
}

func (d *Dimension3d) merge(b []byte) error {
	return mergeDoubles(b, []**float64{&d.Length, &d.Width, &d.Height}, &d.unknown)
}

func (d *Dimension3d) appendTo(b []byte) []byte {
	b = appendDouble(b, 1, d.Length)
	b = appendDouble(b, 2, d.Width)
	b = appendDouble(b, 3, d.Height)
	return append(b, d.unknown...)
}

func (v *Vector3d) merge(b []byte) error {
	return mergeDoubles(b, []**float64{&v.X, &v.Y, &v.Z}, &v.unknown)
}

func (v *Vector3d) appendTo(b []byte) []byte {
	b = appendDouble(b, 1, v.X)
	b = appendDouble(b, 2, v.Y)
	b = appendDouble(b, 3, v.Z)
	return append(b, v.unknown...)
}

func (o *Orientation3d) merge(b []byte) error {
	return mergeDoubles(b, []**float64{&o.Roll, &o.Pitch, &o.Yaw}, &o.unknown)
}

func (o *Orientation3d) appendTo(b []byte) []byte {
	b = appendDouble(b, 1, o.Roll)
	b = appendDouble(b, 2, o.Pitch)
	b = appendDouble(b, 3, o.Yaw)
	return append(b, o.unknown...)
}

func (v *Vector2d) merge(b []byte) error {
	return mergeDoubles(b, []**float64{&v.X, &v.Y}, &v.unknown)
}

func (v *Vector2d) appendTo(b []byte) []byte {
	b = appendDouble(b, 1, v.X)
	b = appendDouble(b, 2, v.Y)
	return append(b, v.unknown...)
}
