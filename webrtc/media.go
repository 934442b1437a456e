package webrtc

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/pion/rtp"
	pion "github.com/pion/webrtc/v3"
	"github.com/pion/webrtc/v3/pkg/media"

	"github.com/enesunal-m/oairealtime"
)

// Track audio parameters. The realtime WebRTC endpoint negotiates G.711 PCMU
// at 8kHz; frames are paced at 20ms.
const (
	TrackSampleRate = 8000
	FrameDuration   = 20 * time.Millisecond
	FrameSamples    = TrackSampleRate / 50 // 160 samples per 20ms frame

	// silenceFallbackSeconds is the length of the substitute buffer used when
	// the source file cannot be decoded.
	silenceFallbackSeconds = 5
)

// FrameSource produces fixed-size PCM16 frames for the outbound audio track.
// Implementations must be safe to call from the pump goroutine.
type FrameSource interface {
	// NextFrame returns exactly FrameSamples samples. Sources never starve
	// the track; past end-of-content they return silence indefinitely.
	NextFrame() []int16
}

// SilenceSource emits all-zero frames forever. Use it for text-only data
// channel sessions where the endpoint still requires an outbound track.
type SilenceSource struct{}

// NextFrame returns an all-zero frame.
func (SilenceSource) NextFrame() []int16 { return make([]int16, FrameSamples) }

// FileSource plays a wave file as the outbound track. The file is decoded and
// resampled to the track rate once at construction; the decoded buffer is
// immutable and a cursor advances one frame per NextFrame call. Past
// end-of-buffer it yields silence indefinitely.
type FileSource struct {
	mu      sync.Mutex
	samples []int16
	cursor  int
}

// NewFileSource decodes and resamples path into a FileSource. Decode failures
// (missing file, unsupported sample width, truncated data) are not fatal: the
// source logs a warning and substitutes a fixed-length silence buffer so the
// session can still run, degraded.
func NewFileSource(path string, logger *oairealtime.Logger) *FileSource {
	pcm, err := oairealtime.DecodeWAVFile(path)
	if err != nil {
		if logger != nil {
			logger.Warn("audio_source_fallback", map[string]any{"path": path, "err": err})
		}
		return &FileSource{samples: make([]int16, silenceFallbackSeconds*TrackSampleRate)}
	}
	samples := oairealtime.ResamplePCM16(pcm.Samples, pcm.SampleRate, TrackSampleRate)
	return &FileSource{samples: samples}
}

// NextFrame returns the next 20ms window of the decoded buffer, zero-padded
// at the end-of-buffer boundary, then all-zero frames forever.
func (f *FileSource) NextFrame() []int16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	frame := make([]int16, FrameSamples)
	if f.cursor < len(f.samples) {
		n := copy(frame, f.samples[f.cursor:])
		f.cursor += n
	}
	return frame
}

// Remaining reports how many source samples are still unplayed.
func (f *FileSource) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursor >= len(f.samples) {
		return 0
	}
	return len(f.samples) - f.cursor
}

// Pump paces a FrameSource onto a local audio track, one μ-law encoded frame
// per 20ms tick.
type Pump struct {
	track *pion.TrackLocalStaticSample
	src   FrameSource
}

// NewPump creates a pump feeding track from src.
func NewPump(track *pion.TrackLocalStaticSample, src FrameSource) *Pump {
	return &Pump{track: track, src: src}
}

// Run blocks, writing one frame per tick until ctx is canceled. Write errors
// end the pump; the peer connection teardown surfaces the real failure.
func (p *Pump) Run(ctx context.Context) {
	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample := media.Sample{Data: EncodeULaw(p.src.NextFrame()), Duration: FrameDuration}
			if err := p.track.WriteSample(sample); err != nil {
				return
			}
		}
	}
}

// TrackRecorder sinks the first inbound audio track to a wave file. RTP
// payloads are μ-law decoded to PCM16 and appended under a mutex, but only
// after Start() has opened the gate; earlier packets are dropped. Stop()
// finalizes the recording and writes the file.
type TrackRecorder struct {
	mu      sync.Mutex
	started bool
	stopped bool
	pcm     []int16

	outPath string
	logger  *oairealtime.Logger
}

// NewTrackRecorder creates a recorder that will write to outPath on Stop.
func NewTrackRecorder(outPath string, logger *oairealtime.Logger) *TrackRecorder {
	return &TrackRecorder{outPath: outPath, logger: logger}
}

// Start opens the recording gate. Safe to call multiple times; only the
// first call has effect, so racing gate conditions start recording exactly once.
func (r *TrackRecorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true
	if r.logger != nil {
		r.logger.Info("recorder_started", map[string]any{"path": r.outPath})
	}
}

// Started reports whether the recording gate is open.
func (r *TrackRecorder) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// ConsumeTrack reads RTP packets from an inbound track until the track ends.
// Call it from an OnTrack handler, typically in its own goroutine.
func (r *TrackRecorder) ConsumeTrack(track *pion.TrackRemote) {
	for {
		pkt, _, err := track.ReadRTP()
		if err != nil {
			return // track closed or peer connection tearing down
		}
		r.WriteRTP(pkt)
	}
}

// WriteRTP decodes one μ-law RTP packet into the recording buffer. Packets
// arriving while the gate is closed are dropped.
func (r *TrackRecorder) WriteRTP(pkt *rtp.Packet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started || r.stopped {
		return
	}
	r.pcm = append(r.pcm, DecodeULaw(pkt.Payload)...)
}

// Stop closes the gate, writes the recorded samples as a mono wave file at
// the track sample rate, and returns the write error if any. Idempotent:
// subsequent calls are no-ops returning nil. An empty recording still
// produces a valid header-only file.
func (r *TrackRecorder) Stop() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	samples := r.pcm
	r.mu.Unlock()

	wav := oairealtime.WAVFromPCM16Mono(oairealtime.PCM16Bytes(samples), TrackSampleRate)
	if err := os.WriteFile(r.outPath, wav, 0o644); err != nil {
		if r.logger != nil {
			r.logger.Error("recorder_write_failed", map[string]any{"path": r.outPath, "err": err})
		}
		return err
	}
	if r.logger != nil {
		r.logger.Info("recorder_stopped", map[string]any{
			"path": r.outPath, "samples": len(samples),
			"seconds": float64(len(samples)) / float64(TrackSampleRate),
		})
	}
	return nil
}

// Samples returns a copy of the recorded PCM so far.
func (r *TrackRecorder) Samples() []int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int16, len(r.pcm))
	copy(out, r.pcm)
	return out
}
