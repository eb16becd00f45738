package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestErrorKind_StatusMessage(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindPermissionDenied, "Camera access denied. Check device permissions and try again."},
		{KindDeviceNotFound, "No camera found."},
		{KindDeviceUnsupported, "Camera does not support the requested capture mode."},
		{KindUnknown, "Camera error. Try again."},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.StatusMessage(); got != tt.want {
				t.Errorf("StatusMessage() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("messages are pairwise distinct", func(t *testing.T) {
		seen := make(map[string]ErrorKind)
		for _, tt := range tests {
			if prev, ok := seen[tt.want]; ok {
				t.Errorf("kinds %s and %s share message %q", prev, tt.kind, tt.want)
			}
			seen[tt.want] = tt.kind
		}
	})
}

func TestKindOf(t *testing.T) {
	t.Run("extracts kind from wrapped error", func(t *testing.T) {
		err := &Error{Kind: KindPermissionDenied, Err: errors.New("EACCES")}
		wrapped := errors.Join(errors.New("start failed"), err)

		if got := KindOf(wrapped); got != KindPermissionDenied {
			t.Errorf("KindOf() = %v, want %v", got, KindPermissionDenied)
		}
	})

	t.Run("defaults to unknown for plain errors", func(t *testing.T) {
		if got := KindOf(errors.New("something else")); got != KindUnknown {
			t.Errorf("KindOf() = %v, want %v", got, KindUnknown)
		}
	})
}

func TestMockCamera(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	t.Run("read before open fails", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{&frame}, true)

		if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
			t.Errorf("expected ErrCameraNotOpen, got %v", err)
		}
	})

	t.Run("plays back frames after open", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{&frame}, true)

		if err := cam.Open(); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer cam.Close()

		got, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() error = %v", err)
		}
		defer got.Close()

		if got.Cols() != 640 || got.Rows() != 480 {
			t.Errorf("frame size = %dx%d, want 640x480", got.Cols(), got.Rows())
		}
	})

	t.Run("not ready yields ErrNotReady", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{&frame}, true)
		cam.Open()
		defer cam.Close()
		cam.SetReady(false)

		if _, err := cam.ReadFrame(); !errors.Is(err, ErrNotReady) {
			t.Errorf("expected ErrNotReady, got %v", err)
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		cam := NewMockCamera(nil, false)
		cam.Open()

		if err := cam.Close(); err != nil {
			t.Errorf("first Close() error = %v", err)
		}
		if err := cam.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
		if got := cam.CloseCount(); got != 1 {
			t.Errorf("CloseCount() = %d, want 1", got)
		}
	})

	t.Run("open failure injection", func(t *testing.T) {
		cam := NewMockCamera(nil, false)
		cam.SetOpenError(&Error{Kind: KindPermissionDenied})

		err := cam.Open()
		if err == nil {
			t.Fatal("expected Open to fail")
		}
		if KindOf(err) != KindPermissionDenied {
			t.Errorf("KindOf() = %v, want %v", KindOf(err), KindPermissionDenied)
		}
		if cam.IsOpen() {
			t.Error("camera should not be open after failed Open")
		}
	})

	t.Run("implements Camera interface", func(t *testing.T) {
		var _ Camera = (*MockCamera)(nil)
	})
}

func TestCamera_CloseWhenNeverOpened(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on never-opened camera error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("camera should report closed")
	}
}

func TestCamera_Hardware(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping hardware test")
	}
	if !Probe() {
		t.Skip("no capture device on this host")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("camera not openable: %v", err)
	}
	defer cam.Close()

	w, h := cam.Dimensions()
	if w <= 0 || h <= 0 {
		t.Errorf("negotiated dimensions = %dx%d, want positive", w, h)
	}

	f, err := cam.ReadFrame()
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			return
		}
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f.Close()
}
