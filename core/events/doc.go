// Package events defines the typed events a live remote channel delivers to
// an interview session.
//
// Event kinds are grouped by namespace:
//
//   - channel.*
//   - agent_output.*
//   - caller_input.*
//   - turn_state.*
//
// Semantics used across the package:
//
//   - Chunk: binary audio payload in the channel's output encoding.
//   - Delta: append-only text piece emitted in stream order.
//
// channel events
//
//   - ChannelOpened (channel.opened): handshake completed, audio may flow.
//   - ChannelClosed (channel.closed): the remote side closed the channel.
//   - ChannelError (channel.error): transport fault; the channel is unusable.
//
// agent_output events
//
//   - AgentAudioChunk (agent_output.audio_chunk): synthesized speech chunk.
//   - AgentTranscriptDelta (agent_output.transcript_delta): transcription of
//     the agent's speech.
//
// caller_input events
//
//   - CallerTranscriptDelta (caller_input.transcript_delta): transcription of
//     the caller's speech.
//
// turn_state events
//
//   - TurnComplete (turn_state.completed): the agent finished its turn.
//   - TurnInterrupted (turn_state.interrupted): the caller spoke over the
//     agent and queued agent audio must be dropped.
package events
