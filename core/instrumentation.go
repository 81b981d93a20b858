package interview

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

const scopeName = "github.com/koscakluka/ema-interview/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	droppedFramesCounter, _    = meter.Int64Counter("interview.ingest.dropped_frames")
	forwardedFramesCounter, _  = meter.Int64Counter("interview.ingest.forwarded_frames")
	scheduledBuffersCounter, _ = meter.Int64Counter("interview.playback.scheduled_buffers")
	interruptionsCounter, _    = meter.Int64Counter("interview.playback.interruptions")
)
