package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-interview/core/events"
	"github.com/koscakluka/ema-interview/core/live"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

var errChannelClosed = errors.New("gemini live channel is closed")

// Connect opens a live session. It returns once the socket is up; the
// channel reports events.ChannelOpened when the model acknowledges the
// setup.
func (c *Client) Connect(ctx context.Context, opts ...live.ConnectOption) (live.Channel, error) {
	options := live.NewConnectOptions(opts...)

	ctx, span := tracer.Start(ctx, "connect live channel", trace.WithAttributes(
		attribute.String("gemini.model", c.model),
		attribute.String("gemini.voice", options.Voice),
		attribute.Bool("gemini.transcribe_input", options.TranscribeInput),
	))
	defer span.End()

	session, err := c.client.Live.Connect(ctx, c.model, liveConnectConfig(options))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to connect to gemini live: %w", err)
	}

	ch := &channel{
		session:  session,
		mimeType: options.InputEncoding.MIMEType(),
		modality: options.ResponseModality,
		emit:     options.EventCallback,
	}
	go ch.receive()

	return ch, nil
}

func liveConnectConfig(options live.ConnectOptions) *genai.LiveConnectConfig {
	config := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
	}
	if options.ResponseModality == live.ModalityText {
		config.ResponseModalities = []genai.Modality{genai.ModalityText}
	} else if options.Voice != "" {
		config.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: options.Voice},
			},
		}
	}

	if options.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(options.SystemInstruction, genai.RoleUser)
	}
	if options.TranscribeInput {
		config.InputAudioTranscription = &genai.AudioTranscriptionConfig{}
	}
	if options.TranscribeOutput {
		config.OutputAudioTranscription = &genai.AudioTranscriptionConfig{}
	}
	return config
}

type channel struct {
	session  *genai.Session
	mimeType string
	modality live.Modality
	emit     func(events.Event)

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

func (c *channel) SendAudio(payload []byte) error {
	if c.closed.Load() {
		return errChannelClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	err := c.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Audio: &genai.Blob{Data: payload, MIMEType: c.mimeType},
	})
	if err != nil {
		return fmt.Errorf("failed to send audio to gemini live: %w", err)
	}
	sentAudioBytesCounter.Add(context.Background(), int64(len(payload)),
		metric.WithAttributes(attribute.String("audio.mime_type", c.mimeType)))
	return nil
}

// Close shuts the socket. The receive goroutine notices and exits on its
// own without reporting anything.
func (c *channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.session.Close()
	})
	return err
}

func (c *channel) receive() {
	for {
		message, err := c.session.Receive()
		if err != nil {
			if c.closed.Load() {
				return
			}

			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				c.emit(events.NewChannelClosed(closeReason(closeErr)))
			} else {
				c.emit(events.NewChannelError(err))
			}
			return
		}

		if message.GoAway != nil {
			logger.Warn("gemini live session is going away", "time_left", message.GoAway.TimeLeft)
		}
		for _, event := range eventsFromMessage(message, c.modality) {
			if c.closed.Load() {
				return
			}
			c.emit(event)
		}
	}
}

func closeReason(err *websocket.CloseError) string {
	if text := strings.TrimSpace(err.Text); text != "" {
		return fmt.Sprintf("%d %s", err.Code, text)
	}
	return fmt.Sprintf("%d", err.Code)
}

// eventsFromMessage flattens one server message into session events.
// Transcriptions and audio come before the turn boundary they belong to.
func eventsFromMessage(message *genai.LiveServerMessage, modality live.Modality) []events.Event {
	if message == nil {
		return nil
	}

	var out []events.Event
	if message.SetupComplete != nil {
		out = append(out, events.NewChannelOpened())
	}

	content := message.ServerContent
	if content == nil {
		return out
	}

	if content.Interrupted {
		out = append(out, events.NewTurnInterrupted())
	}
	if content.InputTranscription != nil && content.InputTranscription.Text != "" {
		out = append(out, events.NewCallerTranscriptDelta(content.InputTranscription.Text))
	}
	if content.ModelTurn != nil {
		for _, part := range content.ModelTurn.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && isAudio(part.InlineData.MIMEType) && len(part.InlineData.Data) > 0 {
				receivedAudioBytesCounter.Add(context.Background(), int64(len(part.InlineData.Data)),
					metric.WithAttributes(attribute.String("audio.mime_type", part.InlineData.MIMEType)))
				out = append(out, events.NewAgentAudioChunk(part.InlineData.Data))
			}
			if modality == live.ModalityText && part.Text != "" && !part.Thought {
				out = append(out, events.NewAgentTranscriptDelta(part.Text))
			}
		}
	}
	if content.OutputTranscription != nil && content.OutputTranscription.Text != "" {
		out = append(out, events.NewAgentTranscriptDelta(content.OutputTranscription.Text))
	}
	if content.TurnComplete {
		out = append(out, events.NewTurnComplete())
	}
	return out
}

func isAudio(mimeType string) bool {
	return mimeType == "" || strings.HasPrefix(mimeType, "audio/")
}
