package engine

// TxState describes where a transaction, or one broadcast attempt of it,
// sits in its lifecycle. A logical transaction moves Building, Signed,
// Submitted, then oscillates between Pending and Dropped until it reaches a
// terminal state. Individual attempts end Superseded when a same-nonce
// replacement displaces them.
type TxState uint8

const (
	StateBuilding TxState = iota
	StateSigned
	StateSubmitted
	StatePending
	StateDropped
	StateMined
	StateReverted
	StateSuperseded
	StateTimedOut
	StateAbandoned
)

// String returns the lowercase state name used in logs and CLI output.
func (s TxState) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateSigned:
		return "signed"
	case StateSubmitted:
		return "submitted"
	case StatePending:
		return "pending"
	case StateDropped:
		return "dropped"
	case StateMined:
		return "mined"
	case StateReverted:
		return "reverted"
	case StateSuperseded:
		return "superseded"
	case StateTimedOut:
		return "timed-out"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Terminal reports whether the logical transaction is finished in this
// state. Dropped is not terminal: a dropped transaction can reappear or be
// resubmitted until its deadline passes.
func (s TxState) Terminal() bool {
	switch s {
	case StateMined, StateReverted, StateTimedOut, StateAbandoned:
		return true
	default:
		return false
	}
}
