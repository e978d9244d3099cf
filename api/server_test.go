package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wricardo/berserker/game/config"
	"github.com/wricardo/berserker/game/engine"
	"github.com/wricardo/berserker/game/service"
	"github.com/wricardo/berserker/game/session"
	"github.com/wricardo/berserker/transport/websocket"
)

func newTestService(t *testing.T) service.GameService {
	t.Helper()
	configs, err := config.NewManager("")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	sessions := session.NewManager(session.NewMemoryStore(), *configs.GetDefault())
	return service.NewGameService(sessions, configs)
}

// newTestServerWithDir serves presets from a writable directory
func newTestServerWithDir(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	sessions := session.NewManager(session.NewMemoryStore(), *configs.GetDefault())
	return NewServer(service.NewGameService(sessions, configs), nil, zap.NewNop()), dir
}

func newTestServer(t *testing.T) (*Server, service.GameService) {
	t.Helper()
	svc := newTestService(t)
	return NewServer(svc, nil, zap.NewNop()), svc
}

func doRequest(s http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

// MockGameService implements service.GameService for failure paths
type MockGameService struct {
	service.GameService
	err error
}

func (m *MockGameService) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	return nil, m.err
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	return nil, m.err
}

func (m *MockGameService) SessionCount(ctx context.Context) (int, error) {
	return 0, m.err
}

func TestCreateSession(t *testing.T) {
	s, svc := newTestServer(t)

	t.Run("no body", func(t *testing.T) {
		w := doRequest(s, "POST", "/api/sessions", nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if resp["sessionId"] == "" {
			t.Fatal("Expected sessionId in response")
		}

		snap, err := svc.GetSnapshot(context.Background(), resp["sessionId"])
		if err != nil {
			t.Fatalf("Expected created session to exist: %v", err)
		}
		if snap.Board.Size() != 6 || snap.Stash.Red != 8 || snap.Stash.White != 8 {
			t.Errorf("Expected classic initial state, got %+v", snap)
		}
	})

	t.Run("explicit preset", func(t *testing.T) {
		w := doRequest(s, "POST", "/api/sessions", []byte(`{"config_id":"classic"}`))
		if w.Code != http.StatusCreated {
			t.Errorf("Expected status 201, got %d", w.Code)
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		w := doRequest(s, "POST", "/api/sessions", []byte(`{"config_id":"nope"}`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		w := doRequest(s, "POST", "/api/sessions", []byte(`{`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("unique ids", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			w := doRequest(s, "POST", "/api/sessions", nil)
			var resp map[string]string
			json.Unmarshal(w.Body.Bytes(), &resp)
			if seen[resp["sessionId"]] {
				t.Fatalf("Duplicate session ID %s", resp["sessionId"])
			}
			seen[resp["sessionId"]] = true
		}
	})

	t.Run("service failure", func(t *testing.T) {
		failing := NewServer(&MockGameService{err: errors.New("boom")}, nil, nil)
		w := doRequest(failing, "POST", "/api/sessions", nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "boom" {
			t.Errorf("Expected error 'boom', got '%s'", resp["error"])
		}
	})
}

func TestCreateGameLegacy(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, "GET", "/create-game", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp["gameId"] == "" || resp["gameId"] != resp["sessionId"] {
		t.Errorf("Expected matching gameId and sessionId, got %v", resp)
	}
}

func TestGetSnapshot(t *testing.T) {
	s, svc := newTestServer(t)
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "")
	svc.Join(ctx, info.ID, "c1", "alice")
	if _, err := svc.Move(ctx, info.ID, "c1", 3, 3); err != nil {
		t.Fatalf("Failed to move: %v", err)
	}

	w := doRequest(s, "GET", "/api/sessions/"+info.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	if snap.SessionID != info.ID {
		t.Errorf("Expected session %s, got %s", info.ID, snap.SessionID)
	}
	if snap.Board.Get(3, 3) != engine.Red || snap.CurrentPlayer != engine.White {
		t.Error("Expected red at (3,3) and white to move")
	}
	if snap.Players.Host == nil || snap.Players.Host.Name != "alice" {
		t.Error("Expected host name in snapshot")
	}
	if strings.Contains(w.Body.String(), "c1") {
		t.Error("Expected connection IDs to stay private")
	}

	t.Run("unknown", func(t *testing.T) {
		w := doRequest(s, "GET", "/api/sessions/missing", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("info", func(t *testing.T) {
		w := doRequest(s, "GET", "/api/sessions/"+info.ID+"/info", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var got service.SessionInfo
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("Failed to unmarshal info: %v", err)
		}
		if got.Rules.Name != "classic" {
			t.Errorf("Expected classic rules, got '%s'", got.Rules.Name)
		}
	})
}

func TestListConfigs(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, "GET", "/api/configs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var configs []service.ConfigInfo
	if err := json.Unmarshal(w.Body.Bytes(), &configs); err != nil {
		t.Fatalf("Failed to unmarshal configs: %v", err)
	}
	if len(configs) != 1 || configs[0].ConfigID != "classic" || configs[0].BoardSize != 6 {
		t.Errorf("Expected the classic preset, got %+v", configs)
	}

	w = doRequest(s, "GET", "/api/configs/classic", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = doRequest(s, "GET", "/api/configs/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	failing := NewServer(&MockGameService{err: errors.New("disk")}, nil, nil)
	w = doRequest(failing, "GET", "/api/configs", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s, svc := newTestServer(t)
	svc.CreateSession(context.Background(), "")

	w := doRequest(s, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
	if resp["sessions"] != float64(1) {
		t.Errorf("Expected 1 session, got %v", resp["sessions"])
	}

	failing := NewServer(&MockGameService{err: errors.New("redis down")}, nil, nil)
	w = doRequest(failing, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected health to stay 200 when counting fails, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, "PUT", "/api/sessions/abc", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestWebSocketWithoutHub(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, "GET", "/ws", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestWebSocketThroughServer(t *testing.T) {
	svc := newTestService(t)
	hub := websocket.NewHub(svc, zap.NewNop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	ts := httptest.NewServer(NewServer(svc, hub, zap.NewNop()))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	var created map[string]string
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	join := fmt.Sprintf(`{"type":"join","payload":{"sessionId":%q,"name":"alice"}}`, created["sessionId"])
	if err := conn.WriteMessage(gorillaws.TextMessage, []byte(join)); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string           `json:"type"`
		Payload session.Snapshot `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if msg.Type != "state" || msg.Payload.SessionID != created["sessionId"] {
		t.Errorf("Expected state for %s, got %s for %s", created["sessionId"], msg.Type, msg.Payload.SessionID)
	}
}

func TestDeleteSession(t *testing.T) {
	s, svc := newTestServer(t)

	info, err := svc.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	w := doRequest(s, "DELETE", "/api/sessions/"+info.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(s, "GET", "/api/sessions/"+info.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}

	w = doRequest(s, "DELETE", "/api/sessions/"+info.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}

func TestSaveConfig(t *testing.T) {
	s, dir := newTestServerWithDir(t)

	w := doRequest(s, "POST", "/api/configs", []byte(`{"name":"blitz","description":"fast","board_size":5,"initial_stash":5}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var info service.ConfigInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to unmarshal config info: %v", err)
	}
	if info.ConfigID != "blitz" || info.BoardSize != 5 {
		t.Errorf("Unexpected config info: %+v", info)
	}
	if _, err := os.Stat(filepath.Join(dir, "blitz.yaml")); err != nil {
		t.Errorf("Expected blitz.yaml to be written: %v", err)
	}

	w = doRequest(s, "POST", "/api/sessions", []byte(`{"config_id":"blitz"}`))
	if w.Code != http.StatusCreated {
		t.Errorf("Expected saved preset to be usable, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(s, "POST", "/api/configs", []byte(`{"config_id":"quick","name":"Quick game","board_size":4,"initial_stash":3}`))
	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201 with explicit config_id, got %d: %s", w.Code, w.Body.String())
	}
	if w = doRequest(s, "GET", "/api/configs/quick", nil); w.Code != http.StatusOK {
		t.Errorf("Expected quick preset to load, got %d", w.Code)
	}

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{`},
		{"missing name", `{"board_size":5,"initial_stash":5}`},
		{"stash exceeds board", `{"name":"crowded","board_size":4,"initial_stash":9}`},
		{"board too small", `{"name":"small","board_size":2,"initial_stash":1}`},
		{"reserved id", `{"name":"classic","board_size":6,"initial_stash":8}`},
		{"path in id", `{"config_id":"../escape","name":"x","board_size":6,"initial_stash":8}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, "POST", "/api/configs", []byte(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	t.Run("no config directory", func(t *testing.T) {
		readOnly, _ := newTestServer(t)
		w := doRequest(readOnly, "POST", "/api/configs", []byte(`{"name":"blitz","board_size":5,"initial_stash":5}`))
		if w.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRefreshConfigs(t *testing.T) {
	s, dir := newTestServerWithDir(t)

	w := doRequest(s, "POST", "/api/configs", []byte(`{"name":"blitz","board_size":5,"initial_stash":5}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}

	edited := "name: blitz\nboard_size: 4\ninitial_stash: 3\n"
	if err := os.WriteFile(filepath.Join(dir, "blitz.yaml"), []byte(edited), 0644); err != nil {
		t.Fatalf("Failed to edit preset: %v", err)
	}

	boardSize := func() int {
		w := doRequest(s, "GET", "/api/configs/blitz", nil)
		var rules engine.Rules
		if err := json.Unmarshal(w.Body.Bytes(), &rules); err != nil {
			t.Fatalf("Failed to unmarshal rules: %v", err)
		}
		return rules.BoardSize
	}

	if got := boardSize(); got != 5 {
		t.Fatalf("Expected cached board size 5, got %d", got)
	}

	w = doRequest(s, "POST", "/api/configs/refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := boardSize(); got != 4 {
		t.Errorf("Expected board size 4 after refresh, got %d", got)
	}
}
