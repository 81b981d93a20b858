package interview

import (
	"context"

	"github.com/koscakluka/ema-interview/core/audio"
	"github.com/koscakluka/ema-interview/core/events"
	"github.com/koscakluka/ema-interview/core/live"
	"github.com/koscakluka/ema-interview/core/outcome"
	"github.com/koscakluka/ema-interview/core/speechtotext"
)

type SessionOption func(*Session)

// RemoteChannel opens duplex audio channels to a conversational agent.
type RemoteChannel interface {
	Connect(ctx context.Context, opts ...live.ConnectOption) (Channel, error)
}

type Channel = live.Channel

func WithRemoteChannel(channel RemoteChannel) SessionOption {
	return func(s *Session) {
		s.remoteChannel = channel
	}
}

// Devices hands out the capture source and playback sink of a session.
type Devices interface {
	OpenCapture(ctx context.Context, encoding audio.EncodingInfo) (CaptureSource, error)
	OpenPlayback(ctx context.Context, encoding audio.EncodingInfo) (PlaybackSink, error)
}

type (
	CaptureSource   = audio.CaptureSource
	PlaybackSink    = audio.PlaybackSink
	ScheduledSource = audio.ScheduledSource
)

func WithDevices(devices Devices) SessionOption {
	return func(s *Session) {
		s.devices = devices
	}
}

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

// WithCallerTranscriber replaces the remote channel's transcription of the
// caller with a dedicated speech-to-text client.
func WithCallerTranscriber(client SpeechToText) SessionOption {
	return func(s *Session) {
		s.callerTranscriber.set(client)
	}
}

func WithCandidate(candidate Candidate) SessionOption {
	return func(s *Session) {
		s.candidate = candidate
	}
}

func WithOrganization(organization string) SessionOption {
	return func(s *Session) {
		if organization != "" {
			s.organization = organization
		}
	}
}

func WithVoice(voice string) SessionOption {
	return func(s *Session) {
		if voice != "" {
			s.voice = voice
		}
	}
}

func WithInputEncoding(encoding audio.EncodingInfo) SessionOption {
	return func(s *Session) {
		if !encoding.IsZero() {
			s.inputEncoding = encoding
		}
	}
}

func WithPlaybackEncoding(encoding audio.EncodingInfo) SessionOption {
	return func(s *Session) {
		if !encoding.IsZero() {
			s.playbackEncoding = encoding
		}
	}
}

// WithIngestQueueSize sets how many captured frames may wait for the
// outbound sender before new ones are dropped.
func WithIngestQueueSize(size int) SessionOption {
	return func(s *Session) {
		if size > 0 {
			s.ingestQueueSize = size
		}
	}
}

func WithOutcomeOptions(opts ...outcome.ExtractorOption) SessionOption {
	return func(s *Session) {
		s.extractor = outcome.NewExtractor(opts...)
	}
}

type StartOptions struct {
	onTranscriptAppended func(lines []TranscriptLine)
	onOutcome            func(result outcome.CallOutcome)
	onStateChanged       func(state State)
	onError              func(err error)
	onEvent              func(event events.Event)
}

type StartOption func(*StartOptions)

// WithTranscriptCallback is called after every turn that appended lines.
func WithTranscriptCallback(callback func(lines []TranscriptLine)) StartOption {
	return func(o *StartOptions) {
		o.onTranscriptAppended = callback
	}
}

// WithOutcomeCallback is called at most once, when the agent ends the call.
func WithOutcomeCallback(callback func(result outcome.CallOutcome)) StartOption {
	return func(o *StartOptions) {
		o.onOutcome = callback
	}
}

func WithStateCallback(callback func(state State)) StartOption {
	return func(o *StartOptions) {
		o.onStateChanged = callback
	}
}

func WithErrorCallback(callback func(err error)) StartOption {
	return func(o *StartOptions) {
		o.onError = callback
	}
}

// WithEventCallback observes every inbound channel event before the session
// reacts to it.
func WithEventCallback(callback func(event events.Event)) StartOption {
	return func(o *StartOptions) {
		o.onEvent = callback
	}
}
