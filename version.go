// Package reactagent provides the version information for react-agent.
package reactagent

// Version is the current version of react-agent.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
