package events

// KindCallerTranscriptDelta identifies caller speech transcription.
const KindCallerTranscriptDelta Kind = "caller_input.transcript_delta"

// CallerTranscriptDelta carries an append-only piece of caller transcript.
type CallerTranscriptDelta struct {
	Base
	Text string
}

// NewCallerTranscriptDelta creates a caller transcript delta event.
func NewCallerTranscriptDelta(text string) CallerTranscriptDelta {
	return CallerTranscriptDelta{Base: NewBase(KindCallerTranscriptDelta), Text: text}
}
