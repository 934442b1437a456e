package oairealtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDial_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "empty config",
			config: Config{},
		},
		{
			name: "missing model",
			config: Config{
				BaseURL:    "https://api.openai.com",
				Credential: APIKey("test-key"),
			},
		},
		{
			name: "missing credential",
			config: Config{
				BaseURL: "https://api.openai.com",
				Model:   "gpt-4o-realtime-preview",
			},
		},
		{
			name: "invalid base URL",
			config: Config{
				BaseURL:    "not a url",
				Model:      "gpt-4o-realtime-preview",
				Credential: APIKey("test-key"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := Dial(ctx, tt.config)
			if err == nil {
				t.Error("expected error for invalid config")
				if client != nil {
					client.Close()
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDial_ConnectionRefused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	config := Config{
		BaseURL:    "http://127.0.0.1:1", // Nothing listens here
		Model:      "gpt-4o-realtime-preview",
		Credential: APIKey("test-key"),
	}

	client, err := Dial(ctx, config)
	if err == nil {
		client.Close()
		t.Fatal("expected connection error")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("expected ErrConnectionFailed, got %v", err)
	}
}

func TestClient_WithMockServer(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	config := CreateMockConfig(mockServer.URL())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial mock server: %v", err)
	}
	defer client.Close()

	// Verify we can receive session created event
	var sessionCreatedReceived bool
	var mu sync.Mutex

	client.OnSessionCreated(func(event SessionCreated) {
		mu.Lock()
		defer mu.Unlock()
		sessionCreatedReceived = true

		if event.Type != "session.created" {
			t.Errorf("expected session.created, got %s", event.Type)
		}
		if event.Session.Model != "gpt-4o-realtime-preview" {
			t.Errorf("expected model gpt-4o-realtime-preview, got %s", event.Session.Model)
		}
	})

	// Wait a bit for the session created event
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	received := sessionCreatedReceived
	mu.Unlock()

	if !received {
		t.Error("did not receive session created event")
	}
}

func TestClient_UpdateSession(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	config := CreateMockConfig(mockServer.URL())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer client.Close()

	var sessionUpdated bool
	var mu sync.Mutex

	client.OnSessionUpdated(func(event SessionUpdated) {
		mu.Lock()
		defer mu.Unlock()
		sessionUpdated = true
	})

	session := Session{
		Voice:        Ptr("alloy"),
		Instructions: Ptr("Test instructions"),
	}

	err = client.UpdateSession(ctx, session)
	if err != nil {
		t.Fatalf("failed to send session update: %v", err)
	}

	// Wait for the acknowledgement
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	updated := sessionUpdated
	mu.Unlock()

	if !updated {
		t.Error("did not receive session updated event")
	}
}

func TestClient_CreateResponse_AssemblesText(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	config := CreateMockConfig(mockServer.URL())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer client.Close()

	assembler := NewTextAssembler()
	done := make(chan string, 1)

	client.OnResponseCreated(func(event ResponseCreated) { assembler.OnCreated(event) })
	client.OnResponseTextDelta(func(event ResponseTextDelta) { assembler.OnDelta(event) })
	client.OnResponseTextDone(func(event ResponseTextDone) {
		select {
		case done <- assembler.OnDone(event):
		default:
		}
	})

	if err := client.CreateUserMessage(ctx, "Say hello"); err != nil {
		t.Fatalf("failed to create user message: %v", err)
	}

	eventID, err := client.CreateResponse(ctx, CreateResponseOptions{Modalities: []string{"text"}})
	if err != nil {
		t.Fatalf("failed to create response: %v", err)
	}
	if eventID == "" {
		t.Error("expected non-empty event ID")
	}

	select {
	case text := <-done:
		if text != "Hello" {
			t.Errorf("expected %q, got %q", "Hello", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for response.text.done")
	}
}

func TestClient_EventHandlers(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	// Add a custom error event to the mock server
	errorEvent := map[string]any{
		"type": "error",
		"error": map[string]any{
			"type":    "test_error",
			"message": "Test error message",
		},
	}
	mockServer.AddMessage(errorEvent)

	config := CreateMockConfig(mockServer.URL())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer client.Close()

	var errorReceived bool
	var mu sync.Mutex

	client.OnError(func(event ErrorEvent) {
		mu.Lock()
		defer mu.Unlock()
		errorReceived = true

		if event.Error.Message != "Test error message" {
			t.Errorf("expected 'Test error message', got %q", event.Error.Message)
		}
	})

	// Wait for the error event
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	received := errorReceived
	mu.Unlock()

	if !received {
		t.Error("did not receive error event")
	}
}

func TestClient_Close(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	config := CreateMockConfig(mockServer.URL())
	ctx := context.Background()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	err = client.Close()
	if err != nil {
		t.Errorf("unexpected error closing client: %v", err)
	}

	select {
	case <-client.Closed():
	case <-time.After(time.Second):
		t.Error("Closed channel not closed after Close")
	}

	// Closing twice is safe
	if err := client.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}

	// Using a closed client returns ErrClosed
	err = client.UpdateSession(ctx, Session{})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestClient_CloseDuringInboundStream(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	// Keep the server streaming so the reader is mid-flight when Close runs
	for i := 0; i < 200; i++ {
		mockServer.AddMessage(map[string]any{"type": "rate_limits.updated"})
	}

	config := CreateMockConfig(mockServer.URL())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	// Close underneath the read loop; a reader that re-reads the shared
	// conn field would hit nil here and panic.
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case <-client.Closed():
	case <-time.After(2 * time.Second):
		t.Fatal("Closed channel not closed")
	}
}

func TestClient_ClosedSignaledOnServerShutdown(t *testing.T) {
	mockServer := NewMockServer(t)

	config := CreateMockConfig(mockServer.URL())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer client.Close()

	mockServer.Close()

	select {
	case <-client.Closed():
	case <-time.After(2 * time.Second):
		t.Error("Closed channel not closed after server shutdown")
	}
}

func TestClient_NextEventID(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	config := CreateMockConfig(mockServer.URL())
	ctx := context.Background()

	client, err := Dial(ctx, config)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer client.Close()

	id1, err := client.nextEventID(ctx, "response.create", map[string]any{"type": "response.create"})
	if err != nil {
		t.Fatalf("failed to generate event ID: %v", err)
	}
	id2, err := client.nextEventID(ctx, "response.create", map[string]any{"type": "response.create"})
	if err != nil {
		t.Fatalf("failed to generate second event ID: %v", err)
	}

	if id1 == id2 {
		t.Error("expected unique event IDs")
	}
	if id1 == "" || id2 == "" {
		t.Error("expected non-empty event IDs")
	}
}
