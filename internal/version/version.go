package version

import "fmt"

// Name identifies the component in logs and the model description.
const Name = "osi-field-checker"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a one-line build description.
func String() string {
	return fmt.Sprintf("%s %s (%s, built %s)", Name, Version, GitSHA, BuildTime)
}
