package metrics

// Noop is a Recorder that discards everything. Used in tests and as a
// default when no recorder is injected.
type Noop struct{}

// NewNoop creates a no-op Recorder.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) IncRegistration()      {}
func (*Noop) IncLogin()             {}
func (*Noop) IncLogout()            {}
func (*Noop) IncAuthFailure(string) {}
func (*Noop) IncWalletCreated()     {}
