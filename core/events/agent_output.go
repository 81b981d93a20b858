package events

const (
	// KindAgentAudioChunk identifies synthesized agent speech.
	KindAgentAudioChunk Kind = "agent_output.audio_chunk"
	// KindAgentTranscriptDelta identifies agent speech transcription.
	KindAgentTranscriptDelta Kind = "agent_output.transcript_delta"
)

// AgentAudioChunk carries a chunk of agent speech.
type AgentAudioChunk struct {
	Base
	Audio []byte
}

// NewAgentAudioChunk creates an agent audio chunk event.
func NewAgentAudioChunk(audio []byte) AgentAudioChunk {
	return AgentAudioChunk{Base: NewBase(KindAgentAudioChunk), Audio: audio}
}

// AgentTranscriptDelta carries an append-only piece of agent transcript.
type AgentTranscriptDelta struct {
	Base
	Text string
}

// NewAgentTranscriptDelta creates an agent transcript delta event.
func NewAgentTranscriptDelta(text string) AgentTranscriptDelta {
	return AgentTranscriptDelta{Base: NewBase(KindAgentTranscriptDelta), Text: text}
}
