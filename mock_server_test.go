package oairealtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nhooyr.io/websocket"
)

// MockServer provides a test WebSocket server that simulates the OpenAI
// Realtime API: it checks the auth headers, emits session.created on connect,
// acknowledges session.update, and answers response.create with a scripted
// delta stream ("Hel", "lo") followed by response.done.
type MockServer struct {
	server   *httptest.Server
	messages []interface{}
	t        *testing.T
}

// NewMockServer creates a new mock server for testing
func NewMockServer(t *testing.T) *MockServer {
	ms := &MockServer{t: t, messages: make([]interface{}, 0)}

	ms.server = httptest.NewServer(http.HandlerFunc(ms.handleWebSocket))
	return ms
}

// Close shuts down the mock server
func (ms *MockServer) Close() {
	ms.server.Close()
}

// URL returns the base HTTP URL for the mock server
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// AddMessage adds a message that the server will send to clients after
// session.created
func (ms *MockServer) AddMessage(msg interface{}) {
	ms.messages = append(ms.messages, msg)
}

func (ms *MockServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Realtime handshake requires a bearer token and the beta header
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, "Missing authentication", http.StatusUnauthorized)
		return
	}
	if r.Header.Get("OpenAI-Beta") != "realtime=v1" {
		http.Error(w, "Missing OpenAI-Beta header", http.StatusUnauthorized)
		return
	}

	// Upgrade to WebSocket
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // For testing only
	})
	if err != nil {
		ms.t.Errorf("failed to upgrade to websocket: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Send initial session created event
	sessionCreated := SessionCreated{
		Type:    "session.created",
		EventID: "evt_mock_session_created",
	}
	sessionCreated.Session.ID = "sess_mock_123"
	sessionCreated.Session.Model = r.URL.Query().Get("model")
	sessionCreated.Session.Modalities = []string{"text", "audio"}
	sessionCreated.Session.Voice = "alloy"
	sessionCreated.Session.ExpiresAt = 1640995200

	data, _ := json.Marshal(sessionCreated)
	err = conn.Write(r.Context(), websocket.MessageText, data)
	if err != nil {
		ms.t.Errorf("failed to write session created: %v", err)
		return
	}

	// Send any pre-configured messages
	for _, msg := range ms.messages {
		data, err := json.Marshal(msg)
		if err != nil {
			ms.t.Errorf("failed to marshal message: %v", err)
			continue
		}

		err = conn.Write(r.Context(), websocket.MessageText, data)
		if err != nil {
			ms.t.Errorf("failed to write message: %v", err)
			return
		}
	}

	// Keep connection alive and respond to incoming messages
	for {
		_, data, err := conn.Read(r.Context())
		if err != nil {
			return // Connection closed
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}

		switch env.Type {
		case "session.update":
			response := SessionUpdated{
				Type:    "session.updated",
				EventID: "evt_mock_session_updated",
				Session: map[string]interface{}{"updated": true},
			}
			respData, _ := json.Marshal(response)
			conn.Write(r.Context(), websocket.MessageText, respData)

		case "response.create":
			// Scripted response: created, two text deltas, text done, done
			created := ResponseCreated{
				Type:     "response.created",
				EventID:  "evt_mock_response_created",
				Response: ResponseObject{ID: "resp_mock_123", Status: "in_progress"},
			}
			createdData, _ := json.Marshal(created)
			conn.Write(r.Context(), websocket.MessageText, createdData)

			for _, delta := range []string{"Hel", "lo"} {
				textDelta := ResponseTextDelta{
					Type:       "response.text.delta",
					ResponseID: "resp_mock_123",
					ItemID:     "item_mock_456",
					Delta:      delta,
				}
				deltaData, _ := json.Marshal(textDelta)
				conn.Write(r.Context(), websocket.MessageText, deltaData)
			}

			textDone := ResponseTextDone{
				Type:       "response.text.done",
				ResponseID: "resp_mock_123",
				ItemID:     "item_mock_456",
			}
			doneData, _ := json.Marshal(textDone)
			conn.Write(r.Context(), websocket.MessageText, doneData)

			respDone := ResponseDone{
				Type:     "response.done",
				EventID:  "evt_mock_response_done",
				Response: ResponseObject{ID: "resp_mock_123", Status: "completed"},
			}
			respDoneData, _ := json.Marshal(respDone)
			conn.Write(r.Context(), websocket.MessageText, respDoneData)
		}
	}
}

// CreateMockConfig creates a valid config pointing to the mock server
func CreateMockConfig(serverURL string) Config {
	return Config{
		BaseURL:    serverURL,
		Model:      "gpt-4o-realtime-preview",
		Credential: APIKey("test-key"),
	}
}
