package interview

import (
	"context"
	"fmt"

	"github.com/koscakluka/ema-interview/core/audio"
	"github.com/koscakluka/ema-interview/core/events"
	"github.com/koscakluka/ema-interview/core/speechtotext"
)

// callerTranscriber turns finalized speech-to-text segments of the caller
// into caller transcript deltas for the session reactor.
type callerTranscriber struct {
	// client stores the configured speech-to-text implementation.
	client SpeechToText
}

func (c *callerTranscriber) set(client SpeechToText) {
	if c != nil {
		c.client = client
	}
}

func (c *callerTranscriber) isConfigured() bool {
	return c != nil && c.client != nil
}

func (c *callerTranscriber) Start(ctx context.Context, encoding audio.EncodingInfo, emit func(events.Event) bool) error {
	if !c.isConfigured() {
		return nil
	}

	err := c.client.Transcribe(ctx,
		speechtotext.WithEncodingInfo(encoding),
		speechtotext.WithPartialTranscriptionCallback(func(segment string) {
			// Segments come without separators; the aggregator trims the
			// leading space of the first one.
			emit(events.NewCallerTranscriptDelta(" " + segment))
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to start caller transcription: %w", err)
	}
	return nil
}

func (c *callerTranscriber) SendAudio(payload []byte) {
	if !c.isConfigured() {
		return
	}

	if err := c.client.SendAudio(payload); err != nil {
		logger.Debug("failed to send audio to caller transcriber", "error", err)
	}
}

func (c *callerTranscriber) Close(ctx context.Context) {
	if !c.isConfigured() {
		return
	}

	switch client := c.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := client.Close(ctx); err != nil {
			logger.Warn("failed to close caller transcriber", "error", err)
		}
	case interface{ Close() error }:
		if err := client.Close(); err != nil {
			logger.Warn("failed to close caller transcriber", "error", err)
		}
	case interface{ Close() }:
		client.Close()
	}
}
