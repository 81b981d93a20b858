package gemini

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

const scopeName = "github.com/koscakluka/ema-interview/core/live/gemini"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	sentAudioBytesCounter, _     = meter.Int64Counter("gemini.live.sent_audio_bytes")
	receivedAudioBytesCounter, _ = meter.Int64Counter("gemini.live.received_audio_bytes")
)
