package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/inference"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/track"
	"github.com/google/uuid"
)

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func newTestTracker(t *testing.T, supported bool) *track.Tracker {
	t.Helper()

	tr := track.New(track.Config{
		Camera:    capture.NewMockCamera(nil, false),
		Client:    inference.NewMock(),
		Interval:  10 * time.Millisecond,
		Supported: supported,
	})
	t.Cleanup(tr.Close)
	return tr
}

func TestServer_TrackAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv-backed test")
	}

	s := New(Config{Tracker: newTestTracker(t, true)})

	t.Run("reports initial state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/track", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var resp struct {
			Supported bool   `json:"supported"`
			Active    bool   `json:"active"`
			Status    string `json:"status"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if !resp.Supported {
			t.Error("expected supported=true")
		}
		if resp.Active {
			t.Error("expected active=false before start")
		}
		if resp.Status != track.StatusReady {
			t.Errorf("status = %q, want %q", resp.Status, track.StatusReady)
		}
	})

	t.Run("start then stop round-trip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/track/start", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("start: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		var started struct {
			Active    bool   `json:"active"`
			SessionID string `json:"session_id"`
		}
		json.NewDecoder(rec.Body).Decode(&started)
		if !started.Active || started.SessionID == "" {
			t.Errorf("expected an active session, got %+v", started)
		}

		req = httptest.NewRequest(http.MethodPost, "/api/track/stop", nil)
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("stop: expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var stopped struct {
			Active bool   `json:"active"`
			Status string `json:"status"`
		}
		json.NewDecoder(rec.Body).Decode(&stopped)
		if stopped.Active {
			t.Error("expected active=false after stop")
		}
		if stopped.Status != track.StatusStopped {
			t.Errorf("status = %q, want %q", stopped.Status, track.StatusStopped)
		}
	})

	t.Run("start requires POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/track/start", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_TrackAPI_Unsupported(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv-backed test")
	}

	s := New(Config{Tracker: newTestTracker(t, false)})

	req := httptest.NewRequest(http.MethodPost, "/api/track/start", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestServer_SessionsAPI(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	s := New(Config{Store: st})

	t.Run("empty history", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var resp struct {
			Sessions []json.RawMessage `json:"sessions"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Sessions) != 0 {
			t.Errorf("expected empty session list, got %d", len(resp.Sessions))
		}
	})

	t.Run("lists and fetches recorded sessions", func(t *testing.T) {
		id := uuid.NewString()
		st.Sessions().Create(&store.Session{ID: id, StartedAt: time.Now(), Width: 640, Height: 480})
		st.Sessions().Finish(id, time.Now(), 10, 5, "user")

		req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var resp struct {
			ID            string `json:"id"`
			FramesSampled int64  `json:"frames_sampled"`
			StoppedAt     string `json:"stopped_at"`
		}
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp.ID != id {
			t.Errorf("id = %q, want %q", resp.ID, id)
		}
		if resp.FramesSampled != 10 {
			t.Errorf("frames_sampled = %d, want 10", resp.FramesSampled)
		}
		if resp.StoppedAt == "" {
			t.Error("expected stopped_at to be set")
		}
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("delete removes the record", func(t *testing.T) {
		id := uuid.NewString()
		st.Sessions().Create(&store.Session{ID: id, StartedAt: time.Now()})

		req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
		}
	})
}
