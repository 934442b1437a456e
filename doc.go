// Package oairealtime provides a Go client for the OpenAI Realtime API.
//
// This library enables real-time bidirectional communication with OpenAI's
// realtime models over two transports: WebSockets for control and text/audio
// events, and WebRTC (see the webrtc subpackage) for live media exchange with
// the same events carried on a data channel. It handles connection management,
// event dispatching, and provides utilities for audio/text processing.
//
// Key Features:
//   - WebSocket client for the OpenAI Realtime API
//   - Event-driven architecture with callback handlers (Relay)
//   - Audio streaming with PCM16 format support
//   - Text streaming with delta and completion events
//   - Session management and configuration
//   - Connection keepalive with ping/pong
//   - WebRTC voice round trips via the webrtc subpackage
//
// Basic Usage:
//
//	cfg := oairealtime.Config{
//		BaseURL:    "https://api.openai.com",
//		Model:      "gpt-4o-realtime-preview",
//		Credential: oairealtime.APIKey("your-api-key"),
//	}
//	client, err := oairealtime.Dial(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// The client provides callback methods for handling various events:
//   - OnResponseTextDelta: Handle streaming text responses
//   - OnResponseAudioDelta: Handle streaming audio responses
//   - OnResponseDone: Handle response completion
//   - OnError: Handle API errors
//   - OnSessionCreated/Updated: Handle session lifecycle events
//
// This package is designed for production use with proper error handling,
// logging support, and resource cleanup.
package oairealtime
