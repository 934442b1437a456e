package webrtc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	pion "github.com/pion/webrtc/v3"

	"github.com/enesunal-m/oairealtime"
)

// dataChannelName is the label of the control channel carrying JSON events.
const dataChannelName = "events"

// SessionConfig configures a WebRTC realtime session.
type SessionConfig struct {
	// BaseURL is the API base URL; defaults to oairealtime.DefaultBaseURL.
	BaseURL string

	// Model is the realtime model, passed as the "model" query parameter.
	Model string

	// Bearer authorizes the SDP exchange. Either an ephemeral client secret
	// (browser-grade deployments, see MintEphemeralKey) or a standing API key.
	Bearer string

	// Source feeds the outbound audio track. When nil the session is
	// receive-only: no track is added and a recvonly transceiver is
	// negotiated instead.
	Source FrameSource

	// Recorder, when set, consumes the first inbound audio track.
	Recorder *TrackRecorder

	// ICEServers optionally overrides the default (empty) ICE configuration.
	ICEServers []pion.ICEServer

	// Logger receives structured session events. Optional.
	Logger *oairealtime.Logger

	// HTTPClient used for signaling; defaults to a 20s-timeout client.
	HTTPClient *http.Client
}

// Peer is an established WebRTC session: a peer connection, the "events"
// data channel, and the relay dispatching inbound control events.
type Peer struct {
	pc    *pion.PeerConnection
	dc    *pion.DataChannel
	relay *oairealtime.Relay

	logger     *oairealtime.Logger
	openCh     chan struct{}
	openOnce   sync.Once
	closedCh   chan struct{}
	closedOnce sync.Once
	closeOnce  sync.Once
	pumpCancel context.CancelFunc
}

// Connect negotiates a WebRTC session with the realtime endpoint.
//
// The local offer is POSTed to {base}/v1/realtime?model={model} with
// Content-Type application/sdp; a 200 or 201 body is the SDP answer. Any
// other status, or a malformed answer, fails the whole session with a
// *oairealtime.ConnectionError; there is no retry.
func Connect(ctx context.Context, cfg SessionConfig) (*Peer, error) {
	if cfg.Model == "" {
		return nil, oairealtime.NewConfigError("Model", "", "cannot be empty")
	}
	if cfg.Bearer == "" {
		return nil, oairealtime.NewConfigError("Bearer", "", "cannot be empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = oairealtime.DefaultBaseURL
	}

	pcCfg := pion.Configuration{}
	if len(cfg.ICEServers) > 0 {
		pcCfg.ICEServers = cfg.ICEServers
	}
	pc, err := pion.NewPeerConnection(pcCfg)
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}

	p := &Peer{
		pc:       pc,
		logger:   cfg.Logger,
		openCh:   make(chan struct{}),
		closedCh: make(chan struct{}),
	}
	p.relay = oairealtime.NewRelay(p.logInfo, p.logError)

	pc.OnConnectionStateChange(func(st pion.PeerConnectionState) {
		p.logInfo("peer_state", map[string]any{"state": st.String()})
		switch st {
		case pion.PeerConnectionStateFailed, pion.PeerConnectionStateClosed:
			p.closedOnce.Do(func() { close(p.closedCh) })
		}
	})

	dc, err := pc.CreateDataChannel(dataChannelName, nil)
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("create data channel: %w", err)
	}
	p.dc = dc
	dc.OnOpen(func() {
		p.logInfo("data_channel_open", map[string]any{"label": dataChannelName})
		p.openOnce.Do(func() { close(p.openCh) })
	})
	dc.OnMessage(func(m pion.DataChannelMessage) { p.relay.Dispatch(m.Data) })

	// Media: outbound track from the frame source, or recvonly when absent
	if cfg.Source != nil {
		track, err := pion.NewTrackLocalStaticSample(
			pion.RTPCodecCapability{MimeType: pion.MimeTypePCMU, ClockRate: TrackSampleRate},
			"audio", "oairealtime",
		)
		if err != nil {
			pc.Close()
			return nil, fmt.Errorf("new local track: %w", err)
		}
		if _, err := pc.AddTrack(track); err != nil {
			pc.Close()
			return nil, fmt.Errorf("add track: %w", err)
		}
		pumpCtx, cancel := context.WithCancel(context.Background())
		p.pumpCancel = cancel
		go NewPump(track, cfg.Source).Run(pumpCtx)
	} else {
		_, err = pc.AddTransceiverFromKind(pion.RTPCodecTypeAudio, pion.RTPTransceiverInit{
			Direction: pion.RTPTransceiverDirectionRecvonly,
		})
		if err != nil {
			pc.Close()
			return nil, fmt.Errorf("add transceiver: %w", err)
		}
	}

	if cfg.Recorder != nil {
		rec := cfg.Recorder
		pc.OnTrack(func(track *pion.TrackRemote, _ *pion.RTPReceiver) {
			p.logInfo("inbound_track", map[string]any{"codec": track.Codec().MimeType})
			go rec.ConsumeTrack(track)
		})
	}

	// SDP exchange
	offer, err := pc.CreateOffer(nil)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("create offer: %w", err)
	}
	gatherDone := pion.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		p.Close()
		return nil, fmt.Errorf("set local description: %w", err)
	}
	select {
	case <-gatherDone:
	case <-ctx.Done():
		p.Close()
		return nil, ctx.Err()
	}

	answer, err := exchangeSDP(ctx, cfg, pc.LocalDescription().SDP)
	if err != nil {
		p.Close()
		return nil, err
	}
	if err := pc.SetRemoteDescription(pion.SessionDescription{Type: pion.SDPTypeAnswer, SDP: answer}); err != nil {
		p.Close()
		return nil, oairealtime.NewConnectionError(cfg.BaseURL, "sdp exchange", fmt.Errorf("apply answer: %w", err))
	}

	p.logInfo("webrtc_connected", map[string]any{"model": cfg.Model})
	return p, nil
}

// exchangeSDP posts the local offer and returns the remote answer SDP.
func exchangeSDP(ctx context.Context, cfg SessionConfig, offerSDP string) (string, error) {
	url := fmt.Sprintf("%s/v1/realtime?model=%s", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader(offerSDP))
	if err != nil {
		return "", oairealtime.NewConnectionError(url, "sdp exchange", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.Bearer)
	req.Header.Set("Content-Type", "application/sdp")
	req.Header.Set("OpenAI-Beta", "realtime=v1")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", oairealtime.NewConnectionError(url, "sdp exchange", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", oairealtime.NewConnectionError(url, "sdp exchange", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", oairealtime.NewConnectionError(url, "sdp exchange",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}
	return string(body), nil
}

// Relay returns the relay dispatching inbound data channel events. Register
// handlers before the remote side starts emitting.
func (p *Peer) Relay() *oairealtime.Relay { return p.relay }

// Closed returns a channel that is closed when the session ends, either via
// Close or because the underlying peer connection failed or closed.
func (p *Peer) Closed() <-chan struct{} { return p.closedCh }

// WaitOpen blocks until the data channel is open or ctx expires.
func (p *Peer) WaitOpen(ctx context.Context) error {
	select {
	case <-p.openCh:
		return nil
	case <-ctx.Done():
		return oairealtime.NewConnectionError(dataChannelName, "data channel open", ctx.Err())
	}
}

// Send marshals the payload as JSON and writes it to the data channel.
func (p *Peer) Send(payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return oairealtime.NewSendError("unknown", "", fmt.Errorf("marshal payload: %w", err))
	}
	if err := p.dc.SendText(string(b)); err != nil {
		return oairealtime.NewSendError("unknown", "", err)
	}
	return nil
}

// SendSessionUpdate sends a session.update event over the data channel.
func (p *Peer) SendSessionUpdate(s oairealtime.Session) error {
	if err := oairealtime.ValidateSession(s); err != nil {
		return oairealtime.NewSendError("session.update", "", err)
	}
	return p.Send(map[string]any{"type": "session.update", "session": s})
}

// SendUserMessage sends a conversation.item.create event carrying one user
// text message.
func (p *Peer) SendUserMessage(text string) error {
	item := oairealtime.ConversationItem{
		Type: "message",
		Role: "user",
		Content: []oairealtime.ContentPart{
			{Type: "input_text", Text: text},
		},
	}
	return p.Send(map[string]any{"type": "conversation.item.create", "item": item})
}

// SendResponseCreate sends a response.create event over the data channel.
func (p *Peer) SendResponseCreate(opts oairealtime.CreateResponseOptions) error {
	if err := oairealtime.ValidateCreateResponseOptions(opts); err != nil {
		return oairealtime.NewSendError("response.create", "", err)
	}
	return p.Send(map[string]any{"type": "response.create", "response": opts})
}

// Close stops the outbound pump and closes the peer connection. Idempotent.
func (p *Peer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.pumpCancel != nil {
			p.pumpCancel()
		}
		err = p.pc.Close()
		p.closedOnce.Do(func() { close(p.closedCh) })
	})
	return err
}

func (p *Peer) logInfo(event string, fields map[string]any) {
	if p.logger != nil {
		p.logger.Info(event, fields)
	}
}

func (p *Peer) logError(event string, fields map[string]any) {
	if p.logger != nil {
		p.logger.Error(event, fields)
	}
}
