package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/osi-field-checker/internal/fsutil"
)

func TestDefaults(t *testing.T) {
	cfg := EmptyComponentConfig()
	assert.Equal(t, 0.5, cfg.GetCheckStartTime())
	assert.True(t, cfg.GetAnnotations())
	assert.Equal(t, filepath.Join("/res", DefaultCheckFile), cfg.GetCheckFile("/res"))
	assert.Equal(t, DefaultCheckFile, cfg.GetCheckFile(""))
	assert.Empty(t, cfg.GetReportDatabase("/res"))
	assert.Empty(t, cfg.GetGitHubOutput(nil))
	assert.Equal(t, "/tmp/gh", cfg.GetGitHubOutput(func(k string) string {
		if k == "GITHUB_OUTPUT" {
			return "/tmp/gh"
		}
		return ""
	}))
}

func TestOverrides(t *testing.T) {
	cfg := &ComponentConfig{
		CheckFile:      ptrString("/abs/fields.txt"),
		CheckStartTime: ptrFloat64(0),
		Annotations:    ptrBool(false),
		GitHubOutput:   ptrString("out.txt"),
		ReportDatabase: ptrString("runs.db"),
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/abs/fields.txt", cfg.GetCheckFile("/res"))
	assert.Equal(t, 0.0, cfg.GetCheckStartTime())
	assert.False(t, cfg.GetAnnotations())
	assert.Equal(t, "out.txt", cfg.GetGitHubOutput(func(string) string { return "env" }))
	assert.Equal(t, filepath.Join("/res", "runs.db"), cfg.GetReportDatabase("/res"))
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&ComponentConfig{CheckStartTime: ptrFloat64(-1)}).Validate())
	assert.Error(t, (&ComponentConfig{CheckFile: ptrString("  ")}).Validate())
	assert.Error(t, (&ComponentConfig{LogCategories: []string{"OSI", "DEBUG"}}).Validate())
	assert.NoError(t, (&ComponentConfig{LogCategories: []string{"OSI", "FMI"}}).Validate())
}

func TestLoadComponentConfig(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/res/config.json", []byte(`{"check_start_time": 1.5, "annotations": false}`), 0o644))

	cfg, err := LoadComponentConfig(mfs, "/res/config.json")
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.GetCheckStartTime())
	assert.False(t, cfg.GetAnnotations())
	assert.Nil(t, cfg.CheckFile)
}

func TestLoadComponentConfig_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/res/bad.json", []byte(`{`), 0o644))
	require.NoError(t, mfs.WriteFile("/res/neg.json", []byte(`{"check_start_time": -2}`), 0o644))
	require.NoError(t, mfs.WriteFile("/res/config.yaml", []byte(`a: b`), 0o644))

	for _, path := range []string{"/res/bad.json", "/res/neg.json", "/res/config.yaml", "/res/missing.json"} {
		_, err := LoadComponentConfig(mfs, path)
		assert.Error(t, err, path)
	}
}

func TestLoadFromResources(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	cfg, err := LoadFromResources(mfs, "/res")
	require.NoError(t, err, "missing config.json is not an error")
	assert.Equal(t, EmptyComponentConfig(), cfg)

	cfg, err = LoadFromResources(mfs, "")
	require.NoError(t, err)
	assert.Equal(t, EmptyComponentConfig(), cfg)

	require.NoError(t, mfs.WriteFile("/res/config.json", []byte(`{"check_file": "fields.txt"}`), 0o644))
	cfg, err = LoadFromResources(mfs, "/res")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/res", "fields.txt"), cfg.GetCheckFile("/res"))
}

func TestResourceDir(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "file:///opt/fmu/resources", want: filepath.FromSlash("/opt/fmu/resources")},
		{in: "file:///opt/fmu%20x/resources/", want: filepath.FromSlash("/opt/fmu x/resources/")},
		{in: "/plain/path/", want: filepath.Clean("/plain/path/")},
		{in: "http://example.com/res", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ResourceDir(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
