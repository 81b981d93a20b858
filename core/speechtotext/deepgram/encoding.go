package deepgram

import (
	"fmt"

	"github.com/koscakluka/ema-interview/core/audio"
)

type encodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

type encodingFormat string

func (e encodingFormat) Name() string { return string(e) }

const (
	encodingLinear16 encodingFormat = "linear16"
	encodingALaw     encodingFormat = "alaw"
	encodingMulaw    encodingFormat = "mulaw"
)

// convertEncoding maps a capture encoding onto the encodings the listen
// API accepts for raw audio.
func convertEncoding(encoding audio.EncodingInfo) (encodingInfo, error) {
	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
	default:
		return encodingInfo{}, fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	converted := encodingInfo{SampleRate: encoding.SampleRate}
	switch encoding.Format {
	case audio.EncodingLinear16:
		converted.Format = encodingLinear16
	case audio.EncodingALaw:
		converted.Format = encodingALaw
	case audio.EncodingMulaw:
		converted.Format = encodingMulaw
	default:
		return encodingInfo{}, fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}

	if converted.Format != encodingLinear16 && converted.SampleRate != 8000 {
		return encodingInfo{}, fmt.Errorf("%s requires 8000Hz, got %d", converted.Format, converted.SampleRate)
	}
	return converted, nil
}
