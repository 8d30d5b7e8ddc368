// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WriteFieldsFile writes one required field path per line into a file under
// a fresh temp directory and returns its path.
func WriteFieldsFile(t *testing.T, paths ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "required_fields.txt")
	content := strings.Join(paths, "\n")
	if len(paths) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fields file: %v", err)
	}
	return path
}
