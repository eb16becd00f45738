package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().Truncate(time.Second),
		Width:     640,
		Height:    480,
	}

	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Width != 640 || got.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", got.Width, got.Height)
	}
	if !got.Active() {
		t.Error("freshly created session should be active")
	}
}

func TestSessionRepository_Finish(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{ID: uuid.NewString(), StartedAt: time.Now(), Width: 640, Height: 480}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stoppedAt := time.Now().Add(5 * time.Second)
	if err := s.Sessions().Finish(sess.ID, stoppedAt, 50, 30, "user"); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Active() {
		t.Error("finished session should not be active")
	}
	if got.FramesSampled != 50 {
		t.Errorf("FramesSampled = %d, want 50", got.FramesSampled)
	}
	if got.FramesDetected != 30 {
		t.Errorf("FramesDetected = %d, want 30", got.FramesDetected)
	}
	if got.StopReason != "user" {
		t.Errorf("StopReason = %q, want %q", got.StopReason, "user")
	}
}

func TestSessionRepository_FinishUnknownID(t *testing.T) {
	s := newTestStore(t)

	err := s.Sessions().Finish("no-such-id", time.Now(), 0, 0, "user")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)

	t.Run("empty store lists nothing", func(t *testing.T) {
		sessions, err := s.Sessions().List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(sessions) != 0 {
			t.Errorf("expected empty list, got %d sessions", len(sessions))
		}
	})

	t.Run("most recent first", func(t *testing.T) {
		older := &Session{ID: uuid.NewString(), StartedAt: time.Now().Add(-time.Hour)}
		newer := &Session{ID: uuid.NewString(), StartedAt: time.Now()}
		s.Sessions().Create(older)
		s.Sessions().Create(newer)

		sessions, err := s.Sessions().List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		if sessions[0].ID != newer.ID {
			t.Errorf("expected newest session first, got %s", sessions[0].ID)
		}
	})
}

func TestSessionRepository_Delete(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{ID: uuid.NewString(), StartedAt: time.Now()}
	s.Sessions().Create(sess)

	if err := s.Sessions().Delete(sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := s.Sessions().GetByID(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Sessions().Delete(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}
