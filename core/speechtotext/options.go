package speechtotext

import "github.com/koscakluka/ema-interview/core/audio"

// TranscriptionOptions configures a single transcription stream. Callbacks
// left nil are never called and the provider may skip the work behind them.
type TranscriptionOptions struct {
	// PartialTranscriptionCallback receives each finalized segment on its
	// own, in the order spoken.
	PartialTranscriptionCallback func(segment string)
	// TranscriptionCallback receives the finalized segments of an utterance
	// joined together once the speaker stops.
	TranscriptionCallback func(transcript string)
	// InterimTranscriptionCallback receives unstable hypotheses for the
	// segment currently being spoken.
	InterimTranscriptionCallback func(hypothesis string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	EncodingInfo audio.EncodingInfo
	Language     string
}

type TranscriptionOption func(*TranscriptionOptions)

// NewTranscriptionOptions applies opts over the default capture encoding.
func NewTranscriptionOptions(opts ...TranscriptionOption) TranscriptionOptions {
	options := TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithPartialTranscriptionCallback(callback func(segment string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.PartialTranscriptionCallback = callback
	}
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithInterimTranscriptionCallback(callback func(hypothesis string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if !encodingInfo.IsZero() {
			o.EncodingInfo = encodingInfo
		}
	}
}

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}
