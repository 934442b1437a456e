// Package webrtc provides the WebRTC transport for the OpenAI Realtime API:
// peer connection setup with SDP-over-HTTP signaling, an outbound audio track
// sourced from a wave file or silence, an inbound track recorder, and the
// voice round-trip orchestration that ties them together.
//
// Control events travel on a data channel named "events" and are decoded by
// the same oairealtime.Relay used for WebSocket sessions.
package webrtc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/enesunal-m/oairealtime"
)

// SessionsURL returns the endpoint that mints ephemeral realtime sessions.
func SessionsURL(baseURL string) string {
	return baseURL + "/v1/realtime/sessions"
}

// MintOptions configures an ephemeral key mint request.
type MintOptions struct {
	BaseURL string // API base URL; defaults to oairealtime.DefaultBaseURL
	Model   string // Realtime model, required
	Voice   string // Optional voice for the minted session
	APIKey  string // Standing secret key authorizing the mint
}

// EphemeralResponse is the session resource returned by the sessions endpoint.
type EphemeralResponse struct {
	ID           string `json:"id"`
	ClientSecret struct {
		Value     string `json:"value"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"client_secret"`
}

// MintEphemeralKey creates a realtime session server-side and returns its ID
// and short-lived client secret. The secret is handed to browser or other
// untrusted clients, which use it as an oairealtime.Bearer credential for the
// SDP exchange; the standing API key never leaves the server.
func MintEphemeralKey(ctx context.Context, opt MintOptions) (sessionID, ephemeralKey string, err error) {
	if opt.BaseURL == "" {
		opt.BaseURL = oairealtime.DefaultBaseURL
	}
	payload := map[string]any{"model": opt.Model}
	if opt.Voice != "" {
		payload["voice"] = opt.Voice
	}
	body, _ := json.Marshal(payload)

	url := SessionsURL(opt.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+opt.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "realtime=v1")

	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", "", oairealtime.NewConnectionError(url, "mint ephemeral", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return "", "", oairealtime.NewConnectionError(url, "mint ephemeral",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(b)))
	}
	var er EphemeralResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return "", "", fmt.Errorf("decode sessions response: %w", err)
	}
	return er.ID, er.ClientSecret.Value, nil
}
