package oairealtime

import (
	"encoding/json"
	"sync"
)

// Relay decodes inbound realtime events and dispatches them to registered
// handlers by their "type" tag. Both the WebSocket client and the WebRTC data
// channel feed the same Relay, so handler code is transport-agnostic.
//
// Decoding is a closed tagged-variant scheme: the type tag selects the typed
// struct the raw bytes unmarshal into. Malformed JSON is logged and dropped,
// and unknown types are logged and ignored; neither stops the session.
//
// Handlers run on the transport's reader goroutine and must not block.
type Relay struct {
	mu sync.RWMutex

	logFn    func(event string, fields map[string]any)
	logErrFn func(event string, fields map[string]any)

	onError                         func(ErrorEvent)
	onSessionCreated                func(SessionCreated)
	onSessionUpdated                func(SessionUpdated)
	onRateLimitsUpdated             func(RateLimitsUpdated)
	onConversationItemCreated       func(ConversationItemCreated)
	onConversationItemTruncated     func(ConversationItemTruncated)
	onConversationItemDeleted       func(ConversationItemDeleted)
	onInputAudioBufferSpeechStarted func(InputAudioBufferSpeechStarted)
	onInputAudioBufferSpeechStopped func(InputAudioBufferSpeechStopped)
	onInputAudioBufferCommitted     func(InputAudioBufferCommitted)
	onInputAudioBufferCleared       func(InputAudioBufferCleared)
	onResponseCreated               func(ResponseCreated)
	onResponseStarted               func(ResponseStarted)
	onResponseCompleted             func(ResponseCompleted)
	onResponseDone                  func(ResponseDone)
	onResponseOutputItemAdded       func(ResponseOutputItemAdded)
	onResponseOutputItemDone        func(ResponseOutputItemDone)
	onResponseTextDelta             func(ResponseTextDelta)
	onResponseTextDone              func(ResponseTextDone)
	onResponseAudioDelta            func(ResponseAudioDelta)
	onResponseAudioDone             func(ResponseAudioDone)
	onResponseAudioTranscriptDelta  func(ResponseAudioTranscriptDelta)
	onResponseAudioTranscriptDone   func(ResponseAudioTranscriptDone)
}

// NewRelay creates a Relay with no handlers registered. The log functions may
// be nil; pass Config-compatible loggers to observe dropped and unknown events.
func NewRelay(logFn, logErrFn func(event string, fields map[string]any)) *Relay {
	return &Relay{logFn: logFn, logErrFn: logErrFn}
}

// Handler registration methods. Callbacks are executed in the transport's
// reader goroutine, so they should not block.

// OnError registers a callback for API error events.
func (r *Relay) OnError(fn func(ErrorEvent)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = fn
}

// OnSessionCreated registers a callback for session creation events.
func (r *Relay) OnSessionCreated(fn func(SessionCreated)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSessionCreated = fn
}

// OnSessionUpdated registers a callback for session update events.
func (r *Relay) OnSessionUpdated(fn func(SessionUpdated)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSessionUpdated = fn
}

// OnRateLimitsUpdated registers a callback for rate limit update events.
func (r *Relay) OnRateLimitsUpdated(fn func(RateLimitsUpdated)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRateLimitsUpdated = fn
}

// OnConversationItemCreated registers a callback for conversation item created events.
func (r *Relay) OnConversationItemCreated(fn func(ConversationItemCreated)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onConversationItemCreated = fn
}

// OnConversationItemTruncated registers a callback for conversation item truncated events.
func (r *Relay) OnConversationItemTruncated(fn func(ConversationItemTruncated)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onConversationItemTruncated = fn
}

// OnConversationItemDeleted registers a callback for conversation item deleted events.
func (r *Relay) OnConversationItemDeleted(fn func(ConversationItemDeleted)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onConversationItemDeleted = fn
}

// OnInputAudioBufferSpeechStarted registers a callback for speech start events.
func (r *Relay) OnInputAudioBufferSpeechStarted(fn func(InputAudioBufferSpeechStarted)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInputAudioBufferSpeechStarted = fn
}

// OnInputAudioBufferSpeechStopped registers a callback for speech stop events.
func (r *Relay) OnInputAudioBufferSpeechStopped(fn func(InputAudioBufferSpeechStopped)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInputAudioBufferSpeechStopped = fn
}

// OnInputAudioBufferCommitted registers a callback for audio buffer committed events.
func (r *Relay) OnInputAudioBufferCommitted(fn func(InputAudioBufferCommitted)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInputAudioBufferCommitted = fn
}

// OnInputAudioBufferCleared registers a callback for audio buffer cleared events.
func (r *Relay) OnInputAudioBufferCleared(fn func(InputAudioBufferCleared)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInputAudioBufferCleared = fn
}

// OnResponseCreated registers a callback for response created events.
func (r *Relay) OnResponseCreated(fn func(ResponseCreated)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseCreated = fn
}

// OnResponseStarted registers a callback for response started events.
func (r *Relay) OnResponseStarted(fn func(ResponseStarted)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseStarted = fn
}

// OnResponseCompleted registers a callback for response completed events.
func (r *Relay) OnResponseCompleted(fn func(ResponseCompleted)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseCompleted = fn
}

// OnResponseDone registers a callback for response done events.
func (r *Relay) OnResponseDone(fn func(ResponseDone)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseDone = fn
}

// OnResponseOutputItemAdded registers a callback for response output item added events.
func (r *Relay) OnResponseOutputItemAdded(fn func(ResponseOutputItemAdded)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseOutputItemAdded = fn
}

// OnResponseOutputItemDone registers a callback for response output item done events.
func (r *Relay) OnResponseOutputItemDone(fn func(ResponseOutputItemDone)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseOutputItemDone = fn
}

// OnResponseTextDelta registers a callback for streaming text response events.
func (r *Relay) OnResponseTextDelta(fn func(ResponseTextDelta)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseTextDelta = fn
}

// OnResponseTextDone registers a callback for completed text response events.
func (r *Relay) OnResponseTextDone(fn func(ResponseTextDone)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseTextDone = fn
}

// OnResponseAudioDelta registers a callback for streaming audio response events.
func (r *Relay) OnResponseAudioDelta(fn func(ResponseAudioDelta)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseAudioDelta = fn
}

// OnResponseAudioDone registers a callback for completed audio response events.
func (r *Relay) OnResponseAudioDone(fn func(ResponseAudioDone)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseAudioDone = fn
}

// OnResponseAudioTranscriptDelta registers a callback for audio transcript delta events.
func (r *Relay) OnResponseAudioTranscriptDelta(fn func(ResponseAudioTranscriptDelta)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseAudioTranscriptDelta = fn
}

// OnResponseAudioTranscriptDone registers a callback for audio transcript done events.
func (r *Relay) OnResponseAudioTranscriptDone(fn func(ResponseAudioTranscriptDone)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResponseAudioTranscriptDone = fn
}

// Dispatch parses a raw inbound message and invokes the matching handler.
// Malformed JSON is a logged no-op; unknown types are logged and ignored.
func (r *Relay) Dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.logError("bad_event_json", map[string]any{"err": err, "raw_data": string(raw)})
		return
	}
	r.dispatch(env, raw)
}

func (r *Relay) dispatch(env envelope, raw []byte) {
	switch env.Type {
	case "error":
		var e ErrorEvent
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onError != nil {
			r.onError(e)
		}
		r.mu.RUnlock()
	case "session.created":
		var e SessionCreated
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onSessionCreated != nil {
			r.onSessionCreated(e)
		}
		r.mu.RUnlock()
	case "session.updated":
		var e SessionUpdated
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onSessionUpdated != nil {
			r.onSessionUpdated(e)
		}
		r.mu.RUnlock()
	case "rate_limits.updated":
		var e RateLimitsUpdated
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onRateLimitsUpdated != nil {
			r.onRateLimitsUpdated(e)
		}
		r.mu.RUnlock()
	case "conversation.item.created":
		var e ConversationItemCreated
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onConversationItemCreated != nil {
			r.onConversationItemCreated(e)
		}
		r.mu.RUnlock()
	case "conversation.item.truncated":
		var e ConversationItemTruncated
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onConversationItemTruncated != nil {
			r.onConversationItemTruncated(e)
		}
		r.mu.RUnlock()
	case "conversation.item.deleted":
		var e ConversationItemDeleted
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onConversationItemDeleted != nil {
			r.onConversationItemDeleted(e)
		}
		r.mu.RUnlock()
	case "input_audio_buffer.speech_started":
		var e InputAudioBufferSpeechStarted
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onInputAudioBufferSpeechStarted != nil {
			r.onInputAudioBufferSpeechStarted(e)
		}
		r.mu.RUnlock()
	case "input_audio_buffer.speech_stopped":
		var e InputAudioBufferSpeechStopped
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onInputAudioBufferSpeechStopped != nil {
			r.onInputAudioBufferSpeechStopped(e)
		}
		r.mu.RUnlock()
	case "input_audio_buffer.committed":
		var e InputAudioBufferCommitted
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onInputAudioBufferCommitted != nil {
			r.onInputAudioBufferCommitted(e)
		}
		r.mu.RUnlock()
	case "input_audio_buffer.cleared":
		var e InputAudioBufferCleared
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onInputAudioBufferCleared != nil {
			r.onInputAudioBufferCleared(e)
		}
		r.mu.RUnlock()
	case "response.created":
		var e ResponseCreated
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseCreated != nil {
			r.onResponseCreated(e)
		}
		r.mu.RUnlock()
	case "response.started":
		var e ResponseStarted
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseStarted != nil {
			r.onResponseStarted(e)
		}
		r.mu.RUnlock()
	case "response.completed":
		var e ResponseCompleted
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseCompleted != nil {
			r.onResponseCompleted(e)
		}
		r.mu.RUnlock()
	case "response.done":
		var e ResponseDone
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseDone != nil {
			r.onResponseDone(e)
		}
		r.mu.RUnlock()
	case "response.output_item.added":
		var e ResponseOutputItemAdded
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseOutputItemAdded != nil {
			r.onResponseOutputItemAdded(e)
		}
		r.mu.RUnlock()
	case "response.output_item.done":
		var e ResponseOutputItemDone
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseOutputItemDone != nil {
			r.onResponseOutputItemDone(e)
		}
		r.mu.RUnlock()
	case "response.text.delta":
		var e ResponseTextDelta
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseTextDelta != nil {
			r.onResponseTextDelta(e)
		}
		r.mu.RUnlock()
	case "response.text.done":
		var e ResponseTextDone
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseTextDone != nil {
			r.onResponseTextDone(e)
		}
		r.mu.RUnlock()
	case "response.audio.delta":
		var e ResponseAudioDelta
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseAudioDelta != nil {
			r.onResponseAudioDelta(e)
		}
		r.mu.RUnlock()
	case "response.audio.done":
		var e ResponseAudioDone
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseAudioDone != nil {
			r.onResponseAudioDone(e)
		}
		r.mu.RUnlock()
	case "response.audio_transcript.delta":
		var e ResponseAudioTranscriptDelta
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseAudioTranscriptDelta != nil {
			r.onResponseAudioTranscriptDelta(e)
		}
		r.mu.RUnlock()
	case "response.audio_transcript.done":
		var e ResponseAudioTranscriptDone
		if !r.decode(env.Type, raw, &e) {
			return
		}
		r.mu.RLock()
		if r.onResponseAudioTranscriptDone != nil {
			r.onResponseAudioTranscriptDone(e)
		}
		r.mu.RUnlock()
	default:
		r.log("unknown_event", map[string]any{"type": env.Type})
	}
}

// decode unmarshals raw into the typed event selected by the tag. A body that
// fails to parse is logged and dropped, the same as a malformed envelope; the
// handler never sees a zero-value event.
func (r *Relay) decode(eventType string, raw []byte, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		r.logError("bad_event_json", map[string]any{"type": eventType, "err": err, "raw_data": string(raw)})
		return false
	}
	return true
}

func (r *Relay) log(event string, fields map[string]any) {
	if r.logFn != nil {
		r.logFn(event, fields)
	}
}

func (r *Relay) logError(event string, fields map[string]any) {
	if r.logErrFn != nil {
		r.logErrFn(event, fields)
	}
}
