// Package metrics provides application metric recording.
package metrics

// Recorder counts domain events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	IncRegistration()
	IncLogin()
	IncLogout()
	IncAuthFailure(reason string)
	IncWalletCreated()
}
