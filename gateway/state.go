package gateway

// State is where a call chain stands. The only transitions are
//
//	Idle -> Sent -> Succeeded | Failed | AwaitingRefresh
//	AwaitingRefresh -> Retried | Failed
//	Retried -> Succeeded | Failed
type State int

const (
	Idle State = iota
	Sent
	Succeeded
	Failed
	AwaitingRefresh
	Retried
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sent:
		return "sent"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case AwaitingRefresh:
		return "awaiting_refresh"
	case Retried:
		return "retried"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	Idle:            {Sent},
	Sent:            {Succeeded, Failed, AwaitingRefresh},
	AwaitingRefresh: {Retried, Failed},
	Retried:         {Succeeded, Failed},
}

func (s State) canMoveTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
