package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrOddLength = errors.New("linear16 payload has odd length")

// Frame is a single block of microphone samples as delivered by a capture
// device. Samples are normalised to [-1, 1].
type Frame struct {
	Samples    []float32
	SampleRate int
	Channels   int
	CapturedAt time.Time
}

// Buffer is decoded audio ready to be scheduled on a playback sink.
type Buffer struct {
	Samples    []float32
	SampleRate int
	Duration   time.Duration
}

func NewBuffer(samples []float32, sampleRate int) Buffer {
	var d time.Duration
	if sampleRate > 0 {
		d = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}
	return Buffer{Samples: samples, SampleRate: sampleRate, Duration: d}
}

// EncodeLinear16 converts normalised samples to signed 16-bit little-endian
// PCM, clamping anything outside [-1, 1].
func EncodeLinear16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(floatToInt16(s)))
	}
	return out
}

// DecodeLinear16 converts signed 16-bit little-endian PCM into a playback
// buffer.
func DecodeLinear16(data []byte, sampleRate int) (Buffer, error) {
	if len(data)%2 != 0 {
		return Buffer{}, fmt.Errorf("decode %d bytes: %w", len(data), ErrOddLength)
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768
	}
	return NewBuffer(samples, sampleRate), nil
}

// Float32FromBytes reinterprets little-endian IEEE-754 samples, the layout
// capture devices hand over when opened in float mode.
func Float32FromBytes(data []byte) []float32 {
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples
}

// Float32ToBytes is the inverse of Float32FromBytes, writing into dst.
func Float32ToBytes(dst []byte, samples []float32) {
	for i, s := range samples {
		if (i+1)*4 > len(dst) {
			return
		}
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
	}
}

// Resample converts samples between rates with linear interpolation.
func Resample(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || srcRate <= 0 || dstRate <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(dstRate) / float64(srcRate)
	result := make([]float32, int(float64(len(samples))*ratio))
	for i := range result {
		srcIdx := float64(i) / ratio
		idx := int(srcIdx)
		if idx >= len(samples)-1 {
			result[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(srcIdx - float64(idx))
		result[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return result
}

func floatToInt16(s float32) int16 {
	switch {
	case s >= 1:
		return math.MaxInt16
	case s <= -1:
		return math.MinInt16
	}
	return int16(s * 32768)
}

// Downmix averages interleaved channels into a single channel.
func Downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}

	mono := make([]float32, len(samples)/channels)
	for i := range mono {
		var sum float32
		for c := range channels {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
