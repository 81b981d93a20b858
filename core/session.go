package interview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-interview/core/audio"
	"github.com/koscakluka/ema-interview/core/events"
	"github.com/koscakluka/ema-interview/core/live"
	"github.com/koscakluka/ema-interview/core/outcome"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errChannelNotOpen = errors.New("remote channel is not open")

// Session is a single live interview call. It owns the capture source, the
// playback sink and the remote channel for the duration of the call and
// releases each exactly once on Close.
type Session struct {
	id uuid.UUID

	candidate        Candidate
	organization     string
	voice            string
	inputEncoding    audio.EncodingInfo
	playbackEncoding audio.EncodingInfo
	ingestQueueSize  int

	remoteChannel     RemoteChannel
	devices           Devices
	callerTranscriber callerTranscriber

	stateMu    sync.Mutex
	state      State
	err        error
	notify     notifier
	ready      chan struct{}
	terminated chan struct{}

	muted atomic.Bool

	transcript *transcriptAggregator
	extractor  *outcome.Extractor
	runtime    *sessionRuntime

	resourcesMu sync.Mutex
	sendMu      sync.RWMutex
	closed      bool
	channel     Channel
	capture     CaptureSource
	sink        PlaybackSink
	ingest      *audioIngest
	playback    *playbackScheduler
	cancel      context.CancelFunc
	stopHook    chan struct{}

	started          atomic.Bool
	closeOnce        sync.Once
	transcriberClose sync.Once
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:               uuid.New(),
		organization:     DefaultOrganization,
		voice:            DefaultVoice,
		inputEncoding:    audio.GetDefaultEncodingInfo(),
		playbackEncoding: audio.GetDefaultPlaybackEncodingInfo(),
		ingestQueueSize:  defaultIngestQueueSize,
		state:            StateConnecting,
		ready:            make(chan struct{}),
		terminated:       make(chan struct{}),
		transcript:       newTranscriptAggregator(),
		extractor:        outcome.NewExtractor(),
		runtime:          newSessionRuntime(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start acquires the devices, opens the remote channel and blocks until the
// channel reports it is open. Capture is forwarded from then on. A session
// can only be started once; failures leave it in StateError.
func (s *Session) Start(ctx context.Context, opts ...StartOption) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSessionStarted
	}

	s.stateMu.Lock()
	s.notify = newNotifier(opts...)
	terminal := s.state.IsTerminal()
	s.stateMu.Unlock()
	if terminal {
		return ErrSessionTerminated
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	if !s.adopt(func() {
		s.cancel = cancel
		s.stopHook = withContextCancelHook(ctx, s.Close)
	}) {
		cancel()
		return ErrSessionTerminated
	}

	ctx, span := tracer.Start(ctx, "start session", trace.WithAttributes(
		attribute.String("session.id", s.id.String()),
		attribute.String("session.voice", s.voice),
	))
	defer span.End()

	if s.remoteChannel == nil {
		return s.failStart(span, fmt.Errorf("%w: no remote channel configured", ErrConnectionFailure))
	}
	if s.devices == nil {
		return s.failStart(span, fmt.Errorf("%w: no audio devices configured", ErrDeviceError))
	}

	capture, err := s.devices.OpenCapture(ctx, s.inputEncoding)
	if err != nil {
		return s.failStart(span, fmt.Errorf("%w: failed to open capture: %w", ErrDeviceError, err))
	}
	if !s.adopt(func() {
		s.capture = capture
		s.ingest = newAudioIngest(&s.muted, s.inputEncoding, s.ingestQueueSize, s.sendAudio)
	}) {
		capture.Close()
		return ErrSessionTerminated
	}

	sink, err := s.devices.OpenPlayback(ctx, s.playbackEncoding)
	if err != nil {
		return s.failStart(span, fmt.Errorf("%w: failed to open playback: %w", ErrDeviceError, err))
	}
	if !s.adopt(func() {
		s.sink = sink
		s.playback = newPlaybackScheduler(sink, s.playbackEncoding)
	}) {
		sink.Close()
		return ErrSessionTerminated
	}

	transcribeInput := true
	if s.callerTranscriber.isConfigured() {
		if err := s.callerTranscriber.Start(sessionCtx, s.inputEncoding, s.runtime.enqueue); err != nil {
			logger.Warn("caller transcriber unavailable, falling back to channel transcription", "error", err)
			s.callerTranscriber.set(nil)
		} else {
			transcribeInput = false
			s.ingest.tee = s.callerTranscriber.SendAudio
		}
	}

	instruction, err := BuildSystemInstruction(s.organization, s.candidate)
	if err != nil {
		return s.failStart(span, fmt.Errorf("%w: %w", ErrConnectionFailure, err))
	}

	s.runtime.start(sessionCtx, s.handleChannelEvent)

	channel, err := s.remoteChannel.Connect(sessionCtx,
		live.WithResponseModality(live.ModalityAudio),
		live.WithVoice(s.voice),
		live.WithSystemInstruction(instruction),
		live.WithInputTranscription(transcribeInput),
		live.WithOutputTranscription(true),
		live.WithInputEncoding(s.inputEncoding),
		live.WithOutputEncoding(s.playbackEncoding),
		live.WithEventCallback(func(event events.Event) { s.runtime.enqueue(event) }),
	)
	if err != nil {
		return s.failStart(span, fmt.Errorf("%w: %w", ErrConnectionFailure, err))
	}
	if !s.adopt(func() { s.channel = channel }) {
		_ = channel.Close()
		return ErrSessionTerminated
	}

	select {
	case <-s.ready:
	case <-ctx.Done():
		return s.failStart(span, fmt.Errorf("%w: %w", ErrConnectionFailure, ctx.Err()))
	}

	if state := s.State(); state != StateActive {
		// The channel may have been adopted after the failure was handled.
		s.shutdown(false)
		if err := s.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		return ErrSessionTerminated
	}

	span.AddEvent("session active")
	logger.Info("interview session active", "session_id", s.id.String())
	return nil
}

// SetMuted toggles whether captured audio reaches the remote channel.
// Capture itself keeps running.
func (s *Session) SetMuted(muted bool) error {
	if s.State().IsTerminal() {
		return ErrSessionTerminated
	}

	s.muted.Store(muted)
	return nil
}

// EndManually hangs up an active call. The session finishes without an
// outcome unless one was already produced.
func (s *Session) EndManually() error {
	if !s.transition(StateFinished, nil, StateActive) {
		if s.State().IsTerminal() {
			return ErrSessionTerminated
		}
		return ErrSessionNotActive
	}

	logger.Info("interview ended by caller", "session_id", s.id.String())
	s.shutdown(false)
	return nil
}

// Close releases every resource the session holds. It is safe to call more
// than once and from any goroutine, including session callbacks. A session
// that has not reached a terminal state finishes without an outcome.
func (s *Session) Close() {
	// Callbacks fired by this transition may call Close again.
	s.transition(StateFinished, nil, StateConnecting, StateActive)

	s.closeOnce.Do(func() {
		s.resourcesMu.Lock()
		s.closed = true
		cancel, stopHook := s.cancel, s.stopHook
		s.resourcesMu.Unlock()

		s.runtime.end()
		s.shutdown(false)
		s.releaseSink()

		if cancel != nil {
			cancel()
		}
		if stopHook != nil {
			close(stopHook)
		}
	})
}

func (s *Session) ID() string { return s.id.String() }

func (s *Session) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// Err returns the failure that moved the session to StateError.
func (s *Session) Err() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.err
}

func (s *Session) Muted() bool { return s.muted.Load() }

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.terminated }

// Transcript returns every line appended so far.
func (s *Session) Transcript() []TranscriptLine { return s.transcript.Lines() }

func (s *Session) Outcome() (outcome.CallOutcome, bool) { return s.extractor.Outcome() }

func (s *Session) handleChannelEvent(ctx context.Context, event events.Event) {
	s.notifier().event(event)
	if s.State().IsTerminal() {
		return
	}

	switch typedEvent := event.(type) {
	case events.ChannelOpened:
		if !s.transition(StateActive, nil, StateConnecting) {
			return
		}
		ingest, capture := s.ingestSnapshot()
		if ingest == nil || capture == nil {
			return
		}
		if err := ingest.Start(ctx, capture); err != nil {
			s.fail(fmt.Errorf("%w: failed to start capture: %w", ErrDeviceError, err))
		}

	case events.AgentAudioChunk:
		if s.State() != StateActive {
			return
		}
		if playback := s.playbackSnapshot(); playback != nil {
			if _, err := playback.Enqueue(typedEvent.Audio); err != nil {
				logger.Warn("dropped agent audio chunk", "error", err, "bytes", len(typedEvent.Audio))
			}
		}

	// Turns only count once the channel is open.
	case events.CallerTranscriptDelta:
		if s.State() == StateActive {
			s.transcript.AppendCaller(typedEvent.Text)
		}

	case events.AgentTranscriptDelta:
		if s.State() == StateActive {
			s.transcript.AppendAgent(typedEvent.Text)
		}

	case events.TurnComplete:
		if s.State() != StateActive {
			return
		}
		s.completeTurn(ctx, typedEvent.Timestamp())

	case events.TurnInterrupted:
		if playback := s.playbackSnapshot(); playback != nil {
			playback.Interrupt()
		}

	case events.ChannelError:
		s.failChannel(typedEvent.Err)

	case events.ChannelClosed:
		s.failChannel(fmt.Errorf("channel closed by remote: %s", typedEvent.Reason))
	}
}

func (s *Session) completeTurn(ctx context.Context, at time.Time) {
	_, span := tracer.Start(ctx, "complete turn", trace.WithAttributes(attribute.String("session.id", s.id.String())))
	defer span.End()

	lines, agentText := s.transcript.CompleteTurn(at)
	span.SetAttributes(attribute.Int("turn.appended_lines", len(lines)))
	s.notifier().transcriptAppended(lines)

	result, ok := s.extractor.Extract(agentText)
	if !ok {
		return
	}

	if outcome.Parse(agentText).Malformed() {
		logger.Warn("call outcome markers incomplete, defaults applied",
			"session_id", s.id.String(), "verdict", string(result.Verdict), "score", result.Score)
	}
	span.AddEvent("outcome produced", trace.WithAttributes(
		attribute.String("outcome.verdict", string(result.Verdict)),
		attribute.Int("outcome.score", result.Score),
	))
	s.notifier().outcomeProduced(result)

	if s.transition(StateFinished, nil, StateActive) {
		// The closing words of the agent are still playing.
		s.shutdown(true)
	}
}

func (s *Session) failChannel(err error) {
	if err == nil {
		err = errChannelNotOpen
	}

	if s.State() == StateConnecting {
		s.fail(fmt.Errorf("%w: %w", ErrConnectionFailure, err))
		return
	}
	s.fail(fmt.Errorf("%w: %w", ErrTransportError, err))
}

func (s *Session) failStart(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.fail(err)
	return err
}

func (s *Session) fail(err error) {
	if !s.transition(StateError, err, StateConnecting, StateActive) {
		return
	}

	logger.Error("interview session failed", "session_id", s.id.String(), "error", err)
	s.notifier().failed(err)
	s.shutdown(false)
}

// transition moves the session to `to` if its current state is one of
// `from`. Terminal states are never left.
func (s *Session) transition(to State, err error, from ...State) bool {
	s.stateMu.Lock()
	current := s.state
	if current.IsTerminal() || !slices.Contains(from, current) {
		s.stateMu.Unlock()
		return false
	}
	s.state = to
	if to == StateError {
		s.err = err
	}
	notify := s.notify
	s.stateMu.Unlock()

	if current == StateConnecting {
		close(s.ready)
	}
	if to.IsTerminal() {
		close(s.terminated)
	}

	logger.Debug("interview session state changed", "session_id", s.id.String(), "from", current.String(), "to", to.String())
	notify.stateChanged(to)
	return true
}

func (s *Session) notifier() notifier {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.notify
}

// adopt runs assign under the resource lock unless the session is closed.
func (s *Session) adopt(assign func()) bool {
	s.resourcesMu.Lock()
	defer s.resourcesMu.Unlock()
	if s.closed {
		return false
	}
	assign()
	return true
}

func (s *Session) sendAudio(payload []byte) error {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()

	s.resourcesMu.Lock()
	channel := s.channel
	s.resourcesMu.Unlock()

	if channel == nil {
		return errChannelNotOpen
	}
	return channel.SendAudio(payload)
}

func (s *Session) ingestSnapshot() (*audioIngest, CaptureSource) {
	s.resourcesMu.Lock()
	defer s.resourcesMu.Unlock()
	return s.ingest, s.capture
}

func (s *Session) playbackSnapshot() *playbackScheduler {
	s.resourcesMu.Lock()
	defer s.resourcesMu.Unlock()
	return s.playback
}

// shutdown stops forwarding and releases the channel and capture source.
// Playback is stopped too unless keepPlayback is set.
func (s *Session) shutdown(keepPlayback bool) {
	// Waits out a send in flight, so nothing reaches the channel once it is
	// detached.
	s.sendMu.Lock()
	s.resourcesMu.Lock()
	ingest, playback := s.ingest, s.playback
	channel, capture := s.channel, s.capture
	s.channel, s.capture = nil, nil
	s.resourcesMu.Unlock()
	s.sendMu.Unlock()

	ingest.Stop()
	s.transcriberClose.Do(func() { s.callerTranscriber.Close(context.Background()) })

	if channel != nil {
		if err := channel.Close(); err != nil {
			logger.Warn("failed to close remote channel", "session_id", s.id.String(), "error", err)
		}
	}
	if capture != nil {
		capture.Close()
	}
	if !keepPlayback {
		playback.Stop()
	}
}

func (s *Session) releaseSink() {
	s.resourcesMu.Lock()
	sink, playback := s.sink, s.playback
	s.sink = nil
	s.resourcesMu.Unlock()

	playback.Stop()
	if sink != nil {
		sink.Close()
	}
}
