// Package exitcode defines process exit codes.
package exitcode

const (
	// Success indicates a clean shutdown.
	Success = 0

	// ConfigError indicates the configuration could not be loaded.
	ConfigError = 2

	// ServerError indicates the backend or listener could not start.
	ServerError = 3
)
