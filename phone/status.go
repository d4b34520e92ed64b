package phone

// Status is the lifecycle state of the one call session.
type Status int

const (
	// StatusIdle means no call is in progress; dialing is allowed.
	StatusIdle Status = iota
	// StatusDialing means an initiate-call request is in flight.
	StatusDialing
	// StatusActive means the backend confirmed the call and assigned a
	// call SID.
	StatusActive
	// StatusEnding means an end-call request is in flight. The session
	// returns to Idle whatever that request's outcome.
	StatusEnding
	// StatusTerminated labels a call that has fully wound down. The
	// controller itself resets to Idle; Terminated appears only on the
	// final snapshot handed to the call-ended hook and in backend
	// history records.
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusDialing:
		return "dialing"
	case StatusActive:
		return "active"
	case StatusEnding:
		return "ending"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
