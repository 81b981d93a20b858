package interview

// State is a step of the session lifecycle:
//
//	connecting -> active -> finished
//	connecting -> error
//	active     -> error
//
// finished and error are terminal.
type State string

const (
	StateConnecting State = "connecting"
	StateActive     State = "active"
	StateFinished   State = "finished"
	StateError      State = "error"
)

func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateError
}

func (s State) String() string {
	return string(s)
}
