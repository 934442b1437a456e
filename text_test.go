package oairealtime

import (
	"fmt"
	"testing"
)

func TestTextAssembler(t *testing.T) {
	assembler := NewTextAssembler()

	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_123", Delta: "Hello"})
	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_123", Delta: " World"})

	// Empty text on done means use the assembled deltas
	result := assembler.OnDone(ResponseTextDone{ResponseID: "resp_123", Text: ""})
	if result != "Hello World" {
		t.Errorf("expected %q, got %q", "Hello World", result)
	}

	// Verify the buffer is cleaned up
	remaining := assembler.OnDone(ResponseTextDone{ResponseID: "resp_123", Text: ""})
	if remaining != "" {
		t.Errorf("expected empty string after cleanup, got %q", remaining)
	}
}

func TestTextAssembler_CompleteTextProvided(t *testing.T) {
	assembler := NewTextAssembler()

	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_123", Delta: "This should be ignored"})

	// The complete text field wins over assembled deltas
	result := assembler.OnDone(ResponseTextDone{ResponseID: "resp_123", Text: "Complete response text"})
	if result != "Complete response text" {
		t.Errorf("expected %q, got %q", "Complete response text", result)
	}
}

func TestTextAssembler_ResetOnCreated(t *testing.T) {
	assembler := NewTextAssembler()

	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_1", Delta: "stale text"})

	// response.created for the same ID drops whatever was accumulated
	assembler.OnCreated(ResponseCreated{Response: ResponseObject{ID: "resp_1"}})
	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_1", Delta: "fresh"})

	if got := assembler.Final("resp_1"); got != "fresh" {
		t.Errorf("expected %q after reset, got %q", "fresh", got)
	}
}

func TestTextAssembler_Final(t *testing.T) {
	assembler := NewTextAssembler()

	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_1", Delta: "Hel"})
	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_1", Delta: "lo"})

	if got := assembler.Final("resp_1"); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}
	// Final removes the buffer
	if got := assembler.Final("resp_1"); got != "" {
		t.Errorf("expected empty string after Final, got %q", got)
	}
	// Unknown IDs return empty
	if got := assembler.Final("resp_never_seen"); got != "" {
		t.Errorf("expected empty string for unknown ID, got %q", got)
	}
}

func TestTextAssembler_MultipleResponses(t *testing.T) {
	assembler := NewTextAssembler()

	// Interleaved deltas for two concurrent responses
	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_1", Delta: "First"})
	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_2", Delta: "Second"})
	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_1", Delta: " response"})
	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_2", Delta: " response"})

	result1 := assembler.OnDone(ResponseTextDone{ResponseID: "resp_1", Text: ""})
	if result1 != "First response" {
		t.Errorf("expected 'First response', got %q", result1)
	}

	result2 := assembler.OnDone(ResponseTextDone{ResponseID: "resp_2", Text: ""})
	if result2 != "Second response" {
		t.Errorf("expected 'Second response', got %q", result2)
	}
}

func TestTextAssembler_EmptyDelta(t *testing.T) {
	assembler := NewTextAssembler()

	assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_123", Delta: ""})

	result := assembler.OnDone(ResponseTextDone{ResponseID: "resp_123", Text: ""})
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestTextAssembler_UnicodeHandling(t *testing.T) {
	assembler := NewTextAssembler()

	// Multi-byte runes may even be split across deltas
	deltas := []string{"Hello ", "\xf0\x9f\x8c", "\x8d", " 世界", "!"}
	for _, delta := range deltas {
		assembler.OnDelta(ResponseTextDelta{ResponseID: "resp_unicode", Delta: delta})
	}

	result := assembler.OnDone(ResponseTextDone{ResponseID: "resp_unicode", Text: ""})
	expected := "Hello 🌍 世界!"
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func BenchmarkTextAssembler(b *testing.B) {
	assembler := NewTextAssembler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		responseID := fmt.Sprintf("resp_%d", i)

		for j := 0; j < 10; j++ {
			assembler.OnDelta(ResponseTextDelta{
				ResponseID: responseID,
				Delta:      "test delta content ",
			})
		}
		assembler.OnDone(ResponseTextDone{ResponseID: responseID, Text: ""})
	}
}
