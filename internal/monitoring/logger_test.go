package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	// Test setting a custom logger
	called := false
	customLogger := func(format string, v ...interface{}) {
		called = true
	}

	SetLogger(customLogger)
	Logf("test message")

	if !called {
		t.Error("Custom logger was not called")
	}

	// Test setting nil logger (should create no-op)
	SetLogger(nil)
	// This should not panic
	Logf("test message")

	// Verify the logger is a no-op by checking it doesn't panic
	// and doesn't call anything
	noOpCalled := false
	testLogger := func(format string, v ...interface{}) {
		noOpCalled = true
	}
	SetLogger(testLogger)
	// First verify our test logger works
	Logf("test")
	if !noOpCalled {
		t.Error("Test logger should have been called")
	}

	// Now set to nil and verify it doesn't call our logger
	noOpCalled = false
	SetLogger(nil)
	Logf("test")
	if noOpCalled {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	// Test that Logf is not nil by default
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	// Test that we can call it without panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestLogger_CategoryFilter(t *testing.T) {
	l := NewLogger(true)
	var got []string
	l.SetSink(func(level Level, c Category, msg string) {
		got = append(got, string(c)+":"+msg)
	})

	l.Configure(true, []string{"OSMP", "bogus"})
	l.Logf(CategoryFMI, "fmi %d", 1)
	l.Logf(CategoryOSMP, "osmp %d", 2)
	if len(got) != 1 || got[0] != "OSMP:osmp 2" {
		t.Fatalf("got %v, want only the OSMP record", got)
	}

	l.Configure(true, nil)
	if !l.Enabled(CategoryFMI) || !l.Enabled(CategoryOSI) {
		t.Error("empty category list should select every category")
	}

	l.Configure(false, nil)
	got = nil
	l.Logf(CategoryOSI, "muted")
	l.Warnf(CategoryOSI, "loud")
	if len(got) != 1 || got[0] != "OSI:loud" {
		t.Errorf("got %v, want warnings to bypass the switch", got)
	}
}

func TestLogger_DefaultSinkUsesLogf(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	l := NewLogger(true)
	l.Logf(CategoryOSI, "no valid input")
	l.Warnf(CategoryFMI, "check file missing")

	want := []string{"[OSI] no valid input", "[FMI] warning: check file missing"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
