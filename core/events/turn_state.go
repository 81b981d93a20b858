package events

const (
	// KindTurnComplete identifies the end of an agent turn.
	KindTurnComplete Kind = "turn_state.completed"
	// KindTurnInterrupted identifies barge-in by the caller.
	KindTurnInterrupted Kind = "turn_state.interrupted"
)

// TurnComplete marks the end of the current turn.
type TurnComplete struct{ Base }

// NewTurnComplete creates a turn complete event.
func NewTurnComplete() TurnComplete {
	return TurnComplete{Base: NewBase(KindTurnComplete)}
}

// TurnInterrupted marks that the caller spoke over the agent.
type TurnInterrupted struct{ Base }

// NewTurnInterrupted creates a turn interrupted event.
func NewTurnInterrupted() TurnInterrupted {
	return TurnInterrupted{Base: NewBase(KindTurnInterrupted)}
}
