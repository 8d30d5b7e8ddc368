package testutil

import (
	"os"
	"testing"

	"github.com/banshee-data/osi-field-checker/internal/osi"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, os.ErrNotExist)
}

func TestWriteFieldsFile(t *testing.T) {
	t.Parallel()

	path := WriteFieldsFile(t, "moving_object", "moving_object.base")
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if got, want := string(data), "moving_object\nmoving_object.base\n"; got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}

	empty := WriteFieldsFile(t)
	data, err = os.ReadFile(empty)
	AssertNoError(t, err)
	if len(data) != 0 {
		t.Errorf("empty fields file has %d bytes", len(data))
	}
}

func TestCompleteSensorDataSurvivesEncoding(t *testing.T) {
	t.Parallel()

	msg := CompleteSensorData()
	got, err := osi.Unmarshal(msg.Marshal())
	AssertNoError(t, err)
	base := got.FirstMovingObject().GetBase()
	if base == nil || base.Dimension == nil || len(base.BasePolygon) != 4 {
		t.Fatalf("decoded base incomplete: %+v", base)
	}

	stripped := SensorDataWithBase(func(b *osi.BaseMoving) { b.Velocity = nil })
	if stripped.FirstMovingObject().GetBase().Velocity != nil {
		t.Error("strip function not applied")
	}
}
