package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}
}

func readMessage(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case data := <-ch:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		return message
	case <-time.After(time.Second):
		t.Fatal("No message received within timeout")
	}
	return Message{}
}

// startHub runs a hub until the test ends
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

// waitForClients polls until the session has want clients
func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func dial(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"))
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?sessionId=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readConnMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if cap(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("Expected broadcast buffer %d, got %d", engine.WebSocketBufferSize, cap(hub.broadcast))
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "s1")
	client2 := newTestClient(hub, "s1")

	hub.registerClient(client1)
	hub.registerClient(client2)
	hub.unregisterClient(client1)

	if len(hub.sessions["s1"]) != 1 || !hub.sessions["s1"][client2] {
		t.Error("client2 should still be registered")
	}

	// The send channel is closed on unregister
	if _, ok := <-client1.send; ok {
		t.Error("client1 send channel should be closed")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.sessions["s1"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}

	// A second unregister is a no-op
	hub.unregisterClient(client2)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	watcher := newTestClient(hub, "s1")
	other := newTestClient(hub, "s2")
	hub.registerClient(watcher)
	hub.registerClient(other)

	state := &engine.GameState{
		Grid:   [][]int{{2, 0}, {0, 4}},
		Size:   2,
		Score:  12,
		Status: engine.InProgress,
	}
	hub.broadcastMessage(&Message{SessionID: "s1", GameState: state, Event: EventStateUpdate})

	message := readMessage(t, watcher.send)
	if message.SessionID != "s1" || message.Event != EventStateUpdate {
		t.Errorf("Unexpected message header: %+v", message)
	}
	if message.GameState == nil || message.GameState.Score != 12 || message.GameState.Grid[1][1] != 4 {
		t.Errorf("GameState not correctly transmitted: %+v", message.GameState)
	}

	select {
	case <-other.send:
		t.Error("Client of another session received the broadcast")
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "s1", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "s1", Event: "ping"})

	if _, exists := hub.sessions["s1"]; exists {
		t.Error("Client with a full send buffer should be unregistered")
	}
}

func TestHubBroadcastEventQueues(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" || message.Event != "custom-event" || message.Data != "test-data" {
			t.Errorf("Unexpected message: %+v", message)
		}
	default:
		t.Fatal("BroadcastEvent did not queue a message")
	}
}

func TestHubBroadcastDoesNotBlockWhenFull(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < engine.WebSocketBufferSize+10; i++ {
			hub.BroadcastToSession("s1", &engine.GameState{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastToSession blocked on a full queue")
	}
	if len(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("Expected %d queued messages, got %d", engine.WebSocketBufferSize, len(hub.broadcast))
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := startHub(t)

	conn := dial(t, hub, "ws-test")
	waitForClients(t, hub, "ws-test", 1)

	conn.Close()
	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketStateUpdate(t *testing.T) {
	hub := startHub(t)

	conn := dial(t, hub, "msg-test")
	waitForClients(t, hub, "msg-test", 1)

	hub.BroadcastToSession("msg-test", &engine.GameState{
		Grid:    [][]int{{2, 2}, {0, 0}},
		Size:    2,
		Score:   200,
		MaxTile: 2,
		Status:  engine.Won,
	})

	message := readConnMessage(t, conn)
	if message.SessionID != "msg-test" || message.Event != EventStateUpdate {
		t.Errorf("Unexpected message header: %+v", message)
	}
	if message.GameState == nil || message.GameState.Score != 200 || message.GameState.Status != engine.Won {
		t.Errorf("GameState not correctly received: %+v", message.GameState)
	}
}

func TestWebSocketCommands(t *testing.T) {
	hub := startHub(t)

	var mu sync.Mutex
	var received []Command
	hub.SetCommandHandler(CommandHandlerFunc(func(ctx context.Context, sessionID string, cmd Command) error {
		mu.Lock()
		received = append(received, cmd)
		mu.Unlock()

		if cmd.Direction == "sideways" {
			return errors.New("invalid direction: sideways")
		}
		hub.BroadcastEvent(sessionID, "handled", cmd.Action)
		return nil
	}))

	conn := dial(t, hub, "cmd-test")
	waitForClients(t, hub, "cmd-test", 1)

	tests := []struct {
		name      string
		payload   string
		wantEvent string
		wantData  string
	}{
		{"move", `{"action":"move","direction":"left"}`, "handled", "move"},
		{"reset", `{"action":"reset"}`, "handled", "reset"},
		{"handler error", `{"action":"move","direction":"sideways"}`, EventError, "invalid direction: sideways"},
		{"unknown action", `{"action":"undo"}`, EventError, "unknown action: undo"},
		{"malformed", `{not json`, EventError, "malformed command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)); err != nil {
				t.Fatalf("Failed to send command: %v", err)
			}

			message := readConnMessage(t, conn)
			if message.Event != tt.wantEvent {
				t.Errorf("Expected event %q, got %q", tt.wantEvent, message.Event)
			}
			if message.Data != tt.wantData {
				t.Errorf("Expected data %q, got %v", tt.wantData, message.Data)
			}
		})
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 3 {
		t.Fatalf("Expected 3 commands to reach the handler, got %d", len(received))
	}
	if received[0].Action != ActionMove || received[0].Direction != "left" {
		t.Errorf("Unexpected first command: %+v", received[0])
	}
}

func TestWebSocketCommandsWithoutHandler(t *testing.T) {
	hub := startHub(t)

	conn := dial(t, hub, "no-handler")
	waitForClients(t, hub, "no-handler", 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"reset"}`)); err != nil {
		t.Fatalf("Failed to send command: %v", err)
	}

	message := readConnMessage(t, conn)
	if message.Event != EventError {
		t.Errorf("Expected error event, got %q", message.Event)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	conn := dial(t, hub, "shutdown")
	waitForClients(t, hub, "shutdown", 1)

	cancel()
	<-hub.done

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after hub shutdown")
	}
	if hub.ClientCount("shutdown") != 0 {
		t.Error("ClientCount should be 0 after shutdown")
	}
}
