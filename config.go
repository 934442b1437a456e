package oairealtime

import (
	"net/http"
	"time"
)

// Default configuration values applied by Dial when the corresponding
// Config fields are zero.
const (
	// DefaultBaseURL is the public OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com"

	// DefaultDialTimeout bounds WebSocket connection establishment.
	DefaultDialTimeout = 30 * time.Second

	// realtimeBetaHeader must accompany every realtime request while the
	// API is in beta.
	realtimeBetaHeader = "realtime=v1"
)

// Credential represents an authentication method for the OpenAI API.
// Implementations must apply the appropriate authentication headers to HTTP requests.
type Credential interface{ apply(h http.Header) }

// APIKey implements Credential using a standard OpenAI secret key
// (sk-...). This is the usual authentication method for server-side use.
type APIKey string

// apply adds the key as a Bearer token along with the realtime beta header.
func (k APIKey) apply(h http.Header) {
	if k != "" {
		h.Set("Authorization", "Bearer "+string(k))
		h.Set("OpenAI-Beta", realtimeBetaHeader)
	}
}

// Bearer implements Credential using an ephemeral client secret minted by
// the sessions endpoint (see webrtc.MintEphemeralKey). Use this when the
// caller holds a short-lived token rather than a standing API key.
type Bearer string

// apply adds the Bearer token to the Authorization header along with the
// realtime beta header.
func (b Bearer) apply(h http.Header) {
	if b != "" {
		h.Set("Authorization", "Bearer "+string(b))
		h.Set("OpenAI-Beta", realtimeBetaHeader)
	}
}

// Config holds all configuration options for creating an OpenAI Realtime client.
// All fields marked as required must be provided for successful connection.
type Config struct {
	// BaseURL is the base URL of the OpenAI API.
	// Defaults to DefaultBaseURL when empty at Dial time; ValidateConfig
	// still requires it, so populate it (or call Dial, which fills the
	// default before validating).
	// Format: https://api.openai.com
	BaseURL string

	// Model is the realtime model to connect to, passed as the "model"
	// query parameter (e.g. "gpt-4o-realtime-preview").
	// Required: Yes
	Model string

	// Credential provides authentication for API requests.
	// Use APIKey for standing keys or Bearer for ephemeral client secrets.
	// Required: Yes
	Credential Credential

	// DialTimeout sets the maximum time to wait for WebSocket connection establishment.
	// If zero, DefaultDialTimeout is applied.
	// Required: No
	DialTimeout time.Duration

	// HandshakeHeaders allows adding custom headers to the WebSocket handshake request.
	// Useful for proxy authentication, tracing headers, etc.
	// Required: No
	HandshakeHeaders http.Header

	// Logger is called for significant events and can be used for debugging and monitoring.
	// Events include: ws_connected, bad_event_json, unknown_event, and other
	// operational events. The fields parameter contains structured data
	// relevant to each event.
	// Required: No (if nil, no logging occurs)
	Logger func(event string, fields map[string]any)

	// StructuredLogger provides advanced structured logging with configurable levels.
	// If both Logger and StructuredLogger are provided, StructuredLogger takes precedence.
	// Use NewLogger() or NewLoggerFromEnv() to create a structured logger.
	// Required: No (if nil, falls back to Logger or no logging)
	StructuredLogger *Logger
}

// withDefaults returns a copy of cfg with zero-valued optional fields
// replaced by package defaults.
func (cfg Config) withDefaults() Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	return cfg
}
