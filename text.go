package oairealtime

import "sync"

// TextAssembler collects streaming text chunks and reassembles them into
// complete text responses. Buffers are keyed by response ID; wire OnCreated,
// OnDelta and OnDone into the matching Relay handlers.
//
// The assembler is safe for concurrent use; deltas are appended in arrival
// order, and a response.created event resets that response's buffer.
type TextAssembler struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewTextAssembler creates a new TextAssembler instance.
func NewTextAssembler() *TextAssembler { return &TextAssembler{data: make(map[string][]byte)} }

// OnCreated resets the buffer for a newly created response. Call this from
// your ResponseCreated event handler so stale text from a previous
// accumulation never leaks into the new response.
func (t *TextAssembler) OnCreated(e ResponseCreated) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.data, e.Response.ID)
}

// OnDelta processes a ResponseTextDelta event by appending the text delta.
// Call this from your ResponseTextDelta event handler.
func (t *TextAssembler) OnDelta(e ResponseTextDelta) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[e.ResponseID] = append(t.data[e.ResponseID], []byte(e.Delta)...)
}

// OnDone retrieves and removes the complete text response for a given
// ResponseTextDone event. Returns the full text, preferring the complete text
// field if available, otherwise returning the assembled deltas.
func (t *TextAssembler) OnDone(e ResponseTextDone) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e.Text != "" {
		// Complete text provided, clean up and return
		delete(t.data, e.ResponseID)
		return e.Text
	}
	// Assemble from deltas
	buf := t.data[e.ResponseID]
	delete(t.data, e.ResponseID)
	return string(buf)
}

// Final retrieves and removes the assembled text for a response ID. Use this
// from a ResponseDone handler when no response.text.done event is expected.
func (t *TextAssembler) Final(responseID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	buf := t.data[responseID]
	delete(t.data, responseID)
	return string(buf)
}

// Reset discards any accumulated text for a response ID.
func (t *TextAssembler) Reset(responseID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.data, responseID)
}
