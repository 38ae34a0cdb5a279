// Package goap provides the version information for the guardian module.
package goap

// Version is the current release of the guardian.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
