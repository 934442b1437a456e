package webrtc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	pion "github.com/pion/webrtc/v3"

	"github.com/enesunal-m/oairealtime"
)

// Phase is the response lifecycle state of a voice session.
type Phase int

const (
	// PhaseIdle: no response output observed yet.
	PhaseIdle Phase = iota
	// PhaseStarted: the response has started producing output.
	PhaseStarted
	// PhaseDone: the response is complete.
	PhaseDone
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarted:
		return "started"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// lifecycleEvent drives VoiceSession transitions.
type lifecycleEvent int

const (
	evCreated lifecycleEvent = iota
	evStarted
	evAudioDelta
	evCompleted
	evDone
)

// VoiceSession tracks the response lifecycle of one voice exchange. It is the
// single owner of the state previously scattered across ad-hoc flags: phase,
// whether audio has arrived, and whether completion arrived out of order. All
// mutation funnels through transition() under one mutex, so handlers on the
// data channel goroutine and the orchestration goroutine observe a consistent
// view.
//
// Valid orderings are idle, started, done and idle straight to done. The
// latter (done arriving before any start notice) is handled and the recorder
// gate still fires, but it is flagged distinctly via LateDone() rather than
// silently normalized, since it is unclear whether the protocol guarantees
// ordering.
type VoiceSession struct {
	mu        sync.Mutex
	phase     Phase
	audioSeen bool
	lateDone  bool

	startedCh chan struct{}
	doneCh    chan struct{}

	recorder *TrackRecorder
	logger   *oairealtime.Logger
}

// NewVoiceSession creates an idle session. recorder may be nil (text-only
// data channel sessions still use the lifecycle waits).
func NewVoiceSession(recorder *TrackRecorder, logger *oairealtime.Logger) *VoiceSession {
	return &VoiceSession{
		startedCh: make(chan struct{}),
		doneCh:    make(chan struct{}),
		recorder:  recorder,
		logger:    logger,
	}
}

// Bind installs the session's lifecycle handlers on a relay. Recorder startup
// is gated by the first of an audio delta, a started notice, or a done
// notice; whichever arrives first opens the gate exactly once.
func (s *VoiceSession) Bind(relay *oairealtime.Relay) {
	relay.OnResponseCreated(func(oairealtime.ResponseCreated) { s.transition(evCreated) })
	relay.OnResponseStarted(func(oairealtime.ResponseStarted) { s.transition(evStarted) })
	relay.OnResponseAudioDelta(func(oairealtime.ResponseAudioDelta) { s.transition(evAudioDelta) })
	relay.OnResponseCompleted(func(oairealtime.ResponseCompleted) { s.transition(evCompleted) })
	relay.OnResponseDone(func(oairealtime.ResponseDone) { s.transition(evDone) })
}

// transition is the single mutation point for all session state.
func (s *VoiceSession) transition(ev lifecycleEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev {
	case evCreated:
		s.logDebug("response_created", map[string]any{"phase": s.phase.String()})

	case evStarted:
		if s.phase == PhaseIdle {
			s.phase = PhaseStarted
			close(s.startedCh)
		}
		s.startRecorderLocked()

	case evAudioDelta:
		s.audioSeen = true
		if s.phase == PhaseIdle {
			// Audio before any start notice also satisfies the start wait
			s.phase = PhaseStarted
			close(s.startedCh)
		}
		s.startRecorderLocked()

	case evCompleted, evDone:
		if s.phase == PhaseDone {
			return
		}
		if s.phase == PhaseIdle {
			// Done before started: handled, but flagged rather than
			// silently normalized.
			s.lateDone = true
			s.logWarn("response_done_before_started", nil)
			close(s.startedCh)
		}
		s.phase = PhaseDone
		s.startRecorderLocked()
		close(s.doneCh)
	}
}

func (s *VoiceSession) startRecorderLocked() {
	if s.recorder != nil {
		s.recorder.Start()
	}
}

// Phase returns the current lifecycle phase.
func (s *VoiceSession) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// AudioSeen reports whether any response.audio.delta has arrived.
func (s *VoiceSession) AudioSeen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioSeen
}

// LateDone reports whether completion arrived before any start notice. The
// flag is sticky for the life of the session.
func (s *VoiceSession) LateDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lateDone
}

// WaitStarted blocks until the response starts (or completes, for the late
// ordering) or ctx expires. On expiry it returns ErrResponseTimeout.
func (s *VoiceSession) WaitStarted(ctx context.Context) error {
	select {
	case <-s.startedCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: started signal: %v", oairealtime.ErrResponseTimeout, ctx.Err())
	}
}

// WaitDone blocks until the response completes or ctx expires. On expiry it
// returns ErrResponseTimeout.
func (s *VoiceSession) WaitDone(ctx context.Context) error {
	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: done signal: %v", oairealtime.ErrResponseTimeout, ctx.Err())
	}
}

func (s *VoiceSession) logDebug(event string, fields map[string]any) {
	if s.logger != nil {
		s.logger.Debug(event, fields)
	}
}

func (s *VoiceSession) logWarn(event string, fields map[string]any) {
	if s.logger != nil {
		s.logger.Warn(event, fields)
	}
}

// Default pacing for the voice round trip.
const (
	// DefaultAudioLead lets outbound audio flow before requesting a response.
	DefaultAudioLead = 2 * time.Second
	// DefaultStartTimeout bounds the wait for the response to start.
	DefaultStartTimeout = 15 * time.Second
	// DefaultDrainGrace lets in-flight RTP land after completion before the
	// recorder stops. Best-effort: the protocol has no final-packet ack.
	DefaultDrainGrace = 3 * time.Second
	// DefaultMaxSessionDuration caps the whole exchange.
	DefaultMaxSessionDuration = 60 * time.Second
)

// VoiceOptions configures RunVoice.
type VoiceOptions struct {
	BaseURL string // API base URL; defaults to oairealtime.DefaultBaseURL
	Model   string // Realtime model, required
	Bearer  string // Ephemeral client secret or standing API key, required

	InputPath  string // Wave file played as the question; must exist
	OutputPath string // Wave file the spoken answer is recorded to

	Voice        string // Optional voice for the session (e.g. "alloy")
	Instructions string // Optional instructions for the response

	// Pacing; zero values take the Default* constants.
	AudioLead          time.Duration
	StartTimeout       time.Duration
	DrainGrace         time.Duration
	MaxSessionDuration time.Duration

	ICEServers []pion.ICEServer
	Logger     *oairealtime.Logger
}

// VoiceResult summarizes a completed voice exchange.
type VoiceResult struct {
	OutputPath      string  // Where the recording was written
	RecordedSamples int     // Recorded sample count at the track rate
	RecordedSeconds float64 // Recorded duration
	LateDone        bool    // Completion arrived before any start notice
	TimedOut        bool    // The done wait expired and shutdown proceeded anyway
}

// RunVoice performs one voice round trip: play the input wave file as the
// outbound track, request a spoken response, and record the inbound track to
// the output path.
//
// Waits are event-driven with explicit timeouts rather than fixed sleeps: the
// start wait expiring opens the recorder gate anyway (with a warning), and
// the done wait expiring proceeds to shutdown. Shutdown waits DrainGrace for
// in-flight packets, stops the recorder (writing the file), and closes the
// peer connection.
func RunVoice(ctx context.Context, opt VoiceOptions) (*VoiceResult, error) {
	if opt.InputPath == "" || opt.OutputPath == "" {
		return nil, errors.New("webrtc: input and output paths are required")
	}
	// A missing question file is a hard error; only decode failures degrade
	// to silence.
	if _, err := os.Stat(opt.InputPath); err != nil {
		return nil, fmt.Errorf("webrtc: input file: %w", err)
	}
	if opt.AudioLead == 0 {
		opt.AudioLead = DefaultAudioLead
	}
	if opt.StartTimeout == 0 {
		opt.StartTimeout = DefaultStartTimeout
	}
	if opt.DrainGrace == 0 {
		opt.DrainGrace = DefaultDrainGrace
	}
	if opt.MaxSessionDuration == 0 {
		opt.MaxSessionDuration = DefaultMaxSessionDuration
	}

	ctx, cancel := context.WithTimeout(ctx, opt.MaxSessionDuration)
	defer cancel()

	// Session-scoped logger: every message from this exchange carries the model
	logger := opt.Logger
	if logger != nil {
		logger = logger.WithContext(map[string]any{"model": opt.Model})
	}

	recorder := NewTrackRecorder(opt.OutputPath, logger)
	session := NewVoiceSession(recorder, logger)
	source := NewFileSource(opt.InputPath, logger)

	peer, err := Connect(ctx, SessionConfig{
		BaseURL:    opt.BaseURL,
		Model:      opt.Model,
		Bearer:     opt.Bearer,
		Source:     source,
		Recorder:   recorder,
		ICEServers: opt.ICEServers,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	defer peer.Close()

	session.Bind(peer.Relay())

	if err := peer.WaitOpen(ctx); err != nil {
		return nil, err
	}

	sessionUpdate := oairealtime.Session{Modalities: []string{"text", "audio"}}
	if opt.Voice != "" {
		sessionUpdate.Voice = oairealtime.Ptr(opt.Voice)
	}
	if err := peer.SendSessionUpdate(sessionUpdate); err != nil {
		return nil, err
	}

	// Let the question audio flow before asking for an answer
	select {
	case <-time.After(opt.AudioLead):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := peer.SendResponseCreate(oairealtime.CreateResponseOptions{
		Modalities:   []string{"text", "audio"},
		Instructions: opt.Instructions,
	}); err != nil {
		return nil, err
	}

	startCtx, startCancel := context.WithTimeout(ctx, opt.StartTimeout)
	err = session.WaitStarted(startCtx)
	startCancel()
	if err != nil {
		// Defined timeout outcome: open the gate anyway so late audio is
		// not lost, and keep waiting for completion.
		if logger != nil {
			logger.Warn("response_start_timeout", map[string]any{"timeout": opt.StartTimeout.String()})
		}
		recorder.Start()
	}

	result := &VoiceResult{OutputPath: opt.OutputPath}
	if err := session.WaitDone(ctx); err != nil {
		// Defined timeout outcome: proceed to shutdown with what arrived
		result.TimedOut = true
		if logger != nil {
			logger.Warn("response_done_timeout", map[string]any{"cap": opt.MaxSessionDuration.String()})
		}
	}

	// Best-effort drain of in-flight packets
	time.Sleep(opt.DrainGrace)

	if err := recorder.Stop(); err != nil {
		return nil, err
	}

	samples := recorder.Samples()
	result.RecordedSamples = len(samples)
	result.RecordedSeconds = float64(len(samples)) / float64(TrackSampleRate)
	result.LateDone = session.LateDone()
	return result, nil
}
