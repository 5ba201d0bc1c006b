// Package exitcode defines the process exit codes. Scripts rely on them to
// tell a bad invocation from a lost session or an unreachable server.
package exitcode

const (
	Success = 0

	// UserError covers bad arguments, unknown tasks and input the server
	// rejected.
	UserError = 1

	// AuthError covers a missing or expired session, a failed login and an
	// unreadable config.
	AuthError = 2

	// BackendError covers server, network and timeout failures.
	BackendError = 3
)
