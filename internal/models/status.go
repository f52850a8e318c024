package models

// RunStatus is the state of the run orchestrator.
type RunStatus string

const (
	StatusIdle      RunStatus = "Idle"
	StatusRunning   RunStatus = "Running"
	StatusError     RunStatus = "Error"
	StatusCancelled RunStatus = "Cancelled"
)

// Quiescent reports whether a new run may be started from this state.
func (s RunStatus) Quiescent() bool {
	return s != StatusRunning
}
