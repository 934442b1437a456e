package oairealtime

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		contains []string
	}{
		{
			name:     "with value",
			err:      NewConfigError("BaseURL", "not-a-url", "invalid URL format"),
			contains: []string{"BaseURL", "not-a-url", "invalid URL format"},
		},
		{
			name:     "without value",
			err:      NewConfigError("Model", "", "cannot be empty"),
			contains: []string{"Model", "cannot be empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected %q in %q", want, msg)
				}
			}
			if !errors.Is(tt.err, ErrInvalidConfig) {
				t.Error("ConfigError should match ErrInvalidConfig")
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewConnectionError("wss://api.openai.com/v1/realtime", "dial", cause)

	msg := err.Error()
	for _, want := range []string{"dial", "wss://api.openai.com/v1/realtime", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}

	if !errors.Is(err, ErrConnectionFailed) {
		t.Error("ConnectionError should match ErrConnectionFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("ConnectionError should unwrap to its cause")
	}

	// Nil cause still formats
	err = NewConnectionError("u", "handshake", nil)
	if !strings.Contains(err.Error(), "handshake") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("expected nil unwrap for nil cause")
	}
}

func TestSendError(t *testing.T) {
	t.Run("with event ID", func(t *testing.T) {
		err := NewSendError("response.create", "evt_123", fmt.Errorf("boom"))
		msg := err.Error()
		for _, want := range []string{"response.create", "evt_123", "boom"} {
			if !strings.Contains(msg, want) {
				t.Errorf("expected %q in %q", want, msg)
			}
		}
		if err.IsTimeout() {
			t.Error("non-timeout cause reported as timeout")
		}
	})

	t.Run("timeout cause", func(t *testing.T) {
		err := NewSendError("session.update", "", ErrSendTimeout)
		if !err.IsTimeout() {
			t.Error("expected IsTimeout for ErrSendTimeout cause")
		}
		if !errors.Is(err, ErrSendTimeout) {
			t.Error("SendError should unwrap to ErrSendTimeout")
		}
	})
}

func TestEventError(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := NewEventError("response.text.delta", []byte(`{"type":`), cause)

	if !strings.Contains(err.Error(), "response.text.delta") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidEventData) {
		t.Error("EventError should match ErrInvalidEventData")
	}
	if !errors.Is(err, cause) {
		t.Error("EventError should unwrap to its cause")
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrClosed,
		ErrInvalidConfig,
		ErrConnectionFailed,
		ErrSendTimeout,
		ErrInvalidEventData,
		ErrResponseTimeout,
	}
	for i, a := range sentinels {
		if !strings.HasPrefix(a.Error(), "oairealtime: ") {
			t.Errorf("sentinel %d missing package prefix: %q", i, a.Error())
		}
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinels %d and %d should not match", i, j)
			}
		}
	}
}
