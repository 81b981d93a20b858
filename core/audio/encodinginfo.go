package audio

import (
	"strconv"
	"time"
)

const (
	// DefaultSampleRate is the rate microphone audio is sent to the remote
	// agent with.
	DefaultSampleRate = 16000
	// DefaultPlaybackSampleRate is the rate the remote agent speaks with.
	DefaultPlaybackSampleRate = 24000
	// DefaultFrameSize is the number of samples in a single captured frame.
	DefaultFrameSize = 4096
	DefaultFormat    = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

func GetDefaultPlaybackEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultPlaybackSampleRate, Format: encodingFormat(DefaultFormat)}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

// MIMEType is the media type the encoding is announced with on the wire,
// e.g. "audio/pcm;rate=16000".
func (e EncodingInfo) MIMEType() string {
	switch e.Format {
	case EncodingLinear16:
		return "audio/pcm;rate=" + strconv.Itoa(e.SampleRate)
	case EncodingMulaw:
		return "audio/basic"
	}
	return "application/octet-stream"
}

// Duration returns how long n bytes of audio in this encoding play for.
func (e EncodingInfo) Duration(n int) time.Duration {
	size := e.Format.ByteSize()
	if size <= 0 || e.SampleRate <= 0 {
		return 0
	}
	samples := n / size
	return time.Duration(samples) * time.Second / time.Duration(e.SampleRate)
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case encodingFormat("mulaw"), encodingFormat("alaw"):
		return 1
	case encodingFormat("linear16"):
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)

