package capture

import (
	"errors"
	"fmt"
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrNotReady is returned by ReadFrame when the camera has no frame buffered
// yet. Callers are expected to skip the tick silently rather than report it.
var ErrNotReady = errors.New("no frame buffered")

// ErrorKind classifies why a camera failed to open. Each kind maps to a
// distinct user-facing status message; the start attempt never succeeds but
// the user may retry.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindPermissionDenied
	KindDeviceNotFound
	KindDeviceUnsupported
)

// Error is a classified camera open failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("open camera: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("open camera: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (k ErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission denied"
	case KindDeviceNotFound:
		return "device not found"
	case KindDeviceUnsupported:
		return "device unsupported"
	default:
		return "unknown error"
	}
}

// StatusMessage returns the human-readable status line for this failure kind.
func (k ErrorKind) StatusMessage() string {
	switch k {
	case KindPermissionDenied:
		return "Camera access denied. Check device permissions and try again."
	case KindDeviceNotFound:
		return "No camera found."
	case KindDeviceUnsupported:
		return "Camera does not support the requested capture mode."
	default:
		return "Camera error. Try again."
	}
}

// KindOf extracts the classification from an error chain, defaulting to
// KindUnknown for errors that did not originate from camera open.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
