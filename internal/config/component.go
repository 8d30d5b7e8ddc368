package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/banshee-data/osi-field-checker/internal/fsutil"
)

// DefaultConfigName is the configuration file looked up in the resources
// directory of the component.
const DefaultConfigName = "config.json"

// DefaultCheckFile is the required-field list looked up in the resources
// directory when neither the configuration nor the host names one.
const DefaultCheckFile = "osi_check_fields.txt"

// ComponentConfig is the optional configuration of a field checker instance.
// Every field is a pointer so an omitted key keeps its default.
type ComponentConfig struct {
	// CheckFile is the required-field list; relative paths resolve against
	// the resources directory.
	CheckFile *string `json:"check_file,omitempty"`

	// CheckStartTime is the communication point (seconds) after which steps
	// are checked, giving upstream models time to settle.
	CheckStartTime *float64 `json:"check_start_time,omitempty"`

	// Annotations enables one "::error" workflow annotation per missing field.
	Annotations *bool `json:"annotations,omitempty"`

	// GitHubOutput is the file the pass/fail flag is appended to. Empty uses
	// the GITHUB_OUTPUT environment variable.
	GitHubOutput *string `json:"github_output,omitempty"`

	// ReportDatabase is a sqlite file run reports are stored in. Empty
	// disables storage.
	ReportDatabase *string `json:"report_database,omitempty"`

	// LogCategories preselects the enabled log categories.
	LogCategories []string `json:"log_categories,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyComponentConfig returns a ComponentConfig with all fields unset.
func EmptyComponentConfig() *ComponentConfig {
	return &ComponentConfig{}
}

// LoadComponentConfig loads a ComponentConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadComponentConfig(fsys fsutil.FileSystem, path string) (*ComponentConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyComponentConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromResources loads DefaultConfigName from resourceDir. A missing file
// yields an empty configuration, not an error.
func LoadFromResources(fsys fsutil.FileSystem, resourceDir string) (*ComponentConfig, error) {
	if resourceDir == "" {
		return EmptyComponentConfig(), nil
	}
	cfg, err := LoadComponentConfig(fsys, filepath.Join(resourceDir, DefaultConfigName))
	if errors.Is(err, fs.ErrNotExist) {
		return EmptyComponentConfig(), nil
	}
	return cfg, err
}

// Validate checks that the configuration values are valid.
func (c *ComponentConfig) Validate() error {
	if c.CheckStartTime != nil && *c.CheckStartTime < 0 {
		return fmt.Errorf("check_start_time must be non-negative, got %f", *c.CheckStartTime)
	}
	if c.CheckFile != nil && strings.TrimSpace(*c.CheckFile) == "" {
		return fmt.Errorf("check_file must not be blank when set")
	}
	for _, name := range c.LogCategories {
		switch name {
		case "FMI", "OSMP", "OSI":
		default:
			return fmt.Errorf("unknown log category %q", name)
		}
	}
	return nil
}

// GetCheckFile returns the required-field file resolved against resourceDir.
func (c *ComponentConfig) GetCheckFile(resourceDir string) string {
	name := DefaultCheckFile
	if c.CheckFile != nil {
		name = *c.CheckFile
	}
	if filepath.IsAbs(name) || resourceDir == "" {
		return name
	}
	return filepath.Join(resourceDir, name)
}

// GetCheckStartTime returns the check_start_time value or the default.
func (c *ComponentConfig) GetCheckStartTime() float64 {
	if c.CheckStartTime == nil {
		return 0.5 // default
	}
	return *c.CheckStartTime
}

// GetAnnotations returns the annotations value or the default.
func (c *ComponentConfig) GetAnnotations() bool {
	if c.Annotations == nil {
		return true // default
	}
	return *c.Annotations
}

// GetGitHubOutput returns the configured output file, falling back to env.
func (c *ComponentConfig) GetGitHubOutput(env func(string) string) string {
	if c.GitHubOutput != nil && *c.GitHubOutput != "" {
		return *c.GitHubOutput
	}
	if env == nil {
		return ""
	}
	return env("GITHUB_OUTPUT")
}

// GetReportDatabase returns the report database path, empty when disabled.
func (c *ComponentConfig) GetReportDatabase(resourceDir string) string {
	if c.ReportDatabase == nil || *c.ReportDatabase == "" {
		return ""
	}
	if filepath.IsAbs(*c.ReportDatabase) || resourceDir == "" {
		return *c.ReportDatabase
	}
	return filepath.Join(resourceDir, *c.ReportDatabase)
}

// ResourceDir converts the resource location handed over at instantiation,
// normally a file:// URI, into a local directory. Plain paths pass through.
func ResourceDir(location string) (string, error) {
	if location == "" {
		return "", nil
	}
	if !strings.Contains(location, "://") {
		return filepath.Clean(location), nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse resource location: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported resource location scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}
