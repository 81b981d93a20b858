// Package live holds the provider-neutral connection options for duplex
// real-time agent channels.
package live

import (
	"github.com/koscakluka/ema-interview/core/audio"
	"github.com/koscakluka/ema-interview/core/events"
)

// Channel is an open duplex channel to a remote agent. Inbound traffic is
// delivered through the EventCallback the channel was opened with.
type Channel interface {
	// SendAudio is fire-and-forget per frame.
	SendAudio(audio []byte) error
	// Close must not wait for in-flight event callbacks.
	Close() error
}

type Modality string

const (
	ModalityAudio Modality = "audio"
	ModalityText  Modality = "text"
)

type ConnectOptions struct {
	ResponseModality  Modality
	Voice             string
	SystemInstruction string

	// TranscribeInput asks the remote side to transcribe caller speech.
	TranscribeInput bool
	// TranscribeOutput asks the remote side to transcribe agent speech.
	TranscribeOutput bool

	InputEncoding  audio.EncodingInfo
	OutputEncoding audio.EncodingInfo

	// EventCallback receives every inbound event. It is called from the
	// channel's receive goroutine, in arrival order.
	EventCallback func(events.Event)
}

type ConnectOption func(*ConnectOptions)

func NewConnectOptions(opts ...ConnectOption) ConnectOptions {
	options := ConnectOptions{
		ResponseModality: ModalityAudio,
		InputEncoding:    audio.GetDefaultEncodingInfo(),
		OutputEncoding:   audio.GetDefaultPlaybackEncodingInfo(),
		EventCallback:    func(events.Event) {},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithResponseModality(modality Modality) ConnectOption {
	return func(o *ConnectOptions) {
		o.ResponseModality = modality
	}
}

func WithVoice(voice string) ConnectOption {
	return func(o *ConnectOptions) {
		o.Voice = voice
	}
}

func WithSystemInstruction(instruction string) ConnectOption {
	return func(o *ConnectOptions) {
		o.SystemInstruction = instruction
	}
}

func WithInputTranscription(enabled bool) ConnectOption {
	return func(o *ConnectOptions) {
		o.TranscribeInput = enabled
	}
}

func WithOutputTranscription(enabled bool) ConnectOption {
	return func(o *ConnectOptions) {
		o.TranscribeOutput = enabled
	}
}

func WithInputEncoding(encoding audio.EncodingInfo) ConnectOption {
	return func(o *ConnectOptions) {
		o.InputEncoding = encoding
	}
}

func WithOutputEncoding(encoding audio.EncodingInfo) ConnectOption {
	return func(o *ConnectOptions) {
		o.OutputEncoding = encoding
	}
}

func WithEventCallback(callback func(events.Event)) ConnectOption {
	return func(o *ConnectOptions) {
		if callback != nil {
			o.EventCallback = callback
		}
	}
}
