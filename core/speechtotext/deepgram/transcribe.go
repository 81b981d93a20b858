package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-interview/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keepAliveInterval = 5 * time.Second

var errStreamNotOpen = errors.New("deepgram stream is not open")

type callbacks struct {
	partialTranscriptionCallback func(string)
	transcriptionCallback        func(string)
	interimTranscriptionCallback func(string)
	startSpeechCallback          func()
	endSpeechCallback            func()
}

type wsConfig struct {
	shouldDetectSpeechStart            bool
	shouldEnhanceSpeechEndingDetection bool
	shouldRequestInterimResults        bool
}

// newCallbackConfig fills unset callbacks with no-ops and derives which
// optional server features the stream needs.
func newCallbackConfig(options speechtotext.TranscriptionOptions) (callbacks, wsConfig) {
	noopText := func(string) {}
	noop := func() {}

	config := wsConfig{
		shouldDetectSpeechStart: options.SpeechStartedCallback != nil,
		shouldEnhanceSpeechEndingDetection: options.TranscriptionCallback != nil ||
			options.SpeechEndedCallback != nil,
		shouldRequestInterimResults: options.InterimTranscriptionCallback != nil,
	}

	cb := callbacks{
		partialTranscriptionCallback: options.PartialTranscriptionCallback,
		transcriptionCallback:        options.TranscriptionCallback,
		interimTranscriptionCallback: options.InterimTranscriptionCallback,
		startSpeechCallback:          options.SpeechStartedCallback,
		endSpeechCallback:            options.SpeechEndedCallback,
	}
	if cb.partialTranscriptionCallback == nil {
		cb.partialTranscriptionCallback = noopText
	}
	if cb.transcriptionCallback == nil {
		cb.transcriptionCallback = noopText
	}
	if cb.interimTranscriptionCallback == nil {
		cb.interimTranscriptionCallback = noopText
	}
	if cb.startSpeechCallback == nil {
		cb.startSpeechCallback = noop
	}
	if cb.endSpeechCallback == nil {
		cb.endSpeechCallback = noop
	}

	return cb, config
}

// Transcribe opens the stream and returns once it is connected. Callbacks
// are called from the client's read goroutine in arrival order.
func (s *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.NewTranscriptionOptions(opts...)

	ctx, span := tracer.Start(ctx, "open deepgram stream", trace.WithAttributes(
		attribute.String("deepgram.model", s.model),
		attribute.Int("audio.sample_rate", options.EncodingInfo.SampleRate),
	))
	defer span.End()

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("invalid encoding: %w", err)
	}

	cb, config := newCallbackConfig(options)
	language := s.language
	if options.Language != "" {
		language = options.Language
	}

	listenURL, err := s.listenURL(encoding, language, config)
	if err != nil {
		return err
	}

	conn, _, err := s.dialer.DialContext(ctx, listenURL, http.Header{"Authorization": {"Token " + s.apiKey}})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.connMu.Lock()
	s.conn = conn
	s.lastMsgTs = time.Now()
	s.cancel = cancel
	s.connMu.Unlock()

	go s.readMessages(streamCtx, conn, cb)
	go s.keepAlive(streamCtx)

	return nil
}

func (s *TranscriptionClient) listenURL(encoding encodingInfo, language string, config wsConfig) (string, error) {
	listenURL, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid deepgram url: %w", err)
	}

	query := listenURL.Query()
	query.Set("encoding", encoding.Format.Name())
	query.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	query.Set("channels", "1")
	query.Set("model", s.model)
	query.Set("language", language)
	query.Set("smart_format", "true")
	query.Set("endpointing", "300")
	if config.shouldEnhanceSpeechEndingDetection {
		query.Set("utterance_end_ms", "1000")
		query.Set("interim_results", "true")
	} else if config.shouldRequestInterimResults {
		query.Set("interim_results", "true")
	}
	if config.shouldDetectSpeechStart || config.shouldEnhanceSpeechEndingDetection {
		query.Set("vad_events", "true")
	}

	listenURL.RawQuery = query.Encode()
	return listenURL.String(), nil
}

func (s *TranscriptionClient) SendAudio(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return errStreamNotOpen
	}

	s.lastMsgTs = time.Now()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// Close asks Deepgram to flush the stream and closes the socket. Results
// still in flight are dropped.
func (s *TranscriptionClient) Close(context.Context) error {
	s.connMu.Lock()
	conn, cancel := s.conn, s.cancel
	s.conn, s.cancel = nil, nil
	s.connMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn == nil {
		return nil
	}

	var errs []error
	if err := conn.WriteJSON(controlMessage{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		errs = append(errs, fmt.Errorf("failed to close deepgram stream: %w", err))
	}
	if err := conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close deepgram socket: %w", err))
	}
	return errors.Join(errs...)
}

type controlMessage struct {
	Type string `json:"type"`
}

// keepAlive stops Deepgram from closing the stream while the caller is
// muted and no audio flows.
func (s *TranscriptionClient) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil && time.Since(s.lastMsgTs) >= keepAliveInterval {
				if err := s.conn.WriteJSON(controlMessage{Type: "KeepAlive"}); err != nil {
					logger.Warn("failed to send deepgram keep alive", "error", err)
				}
			}
			s.connMu.Unlock()
		}
	}
}

func (s *TranscriptionClient) readMessages(ctx context.Context, conn *websocket.Conn, cb callbacks) {
	defer conn.Close()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				logger.Error("failed to read deepgram websocket message", "error", err)
			}
			return
		}
		if msgType == websocket.BinaryMessage {
			continue
		}
		s.processMessage(msg, cb)
	}
}

func (s *TranscriptionClient) processMessage(msg []byte, cb callbacks) {
	var parsedMsg controlMessage
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram transcript", "error", err)
			return
		}

		transcript := ""
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		}

		if !msgResp.IsFinal {
			if transcript != "" {
				cb.interimTranscriptionCallback(transcript)
			}
			return
		}

		if transcript != "" {
			s.accumulatedTranscript += " " + transcript
			cb.partialTranscriptionCallback(transcript)
		}
		if msgResp.SpeechFinal {
			s.onSpeechEnded(cb)
		}

	case api.TypeUtteranceEndResponse:
		if s.unendedSegment {
			s.onSpeechEnded(cb)
		}

	case api.TypeSpeechStartedResponse:
		s.unendedSegment = true
		cb.startSpeechCallback()
	}
}

func (s *TranscriptionClient) onSpeechEnded(cb callbacks) {
	s.unendedSegment = false
	if transcript := strings.TrimSpace(s.accumulatedTranscript); transcript != "" {
		cb.transcriptionCallback(transcript)
	}
	s.accumulatedTranscript = ""
	cb.endSpeechCallback()
}
