package cmd

// version is overridden at build time via ldflags.
var version = "dev"

// Version returns the current application version.
func Version() string {
	return version
}
