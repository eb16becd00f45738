// Package capture provides camera capture functionality using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Preferred capture resolution. This is a hint: the device negotiates the
// closest mode it supports, and Dimensions reports what was actually granted.
const (
	PreferredWidth  = 640
	PreferredHeight = 480
)

// Camera defines the interface for camera capture implementations.
type Camera interface {
	// Open acquires the device. Failures are classified as *Error so the
	// caller can show a distinct status message per refusal reason.
	Open() error

	// Close releases the device. Closing an already-closed camera is a no-op.
	Close() error

	// ReadFrame grabs the current frame at the negotiated resolution.
	// Returns ErrNotReady when the device has nothing buffered yet.
	// The caller is responsible for closing the returned Mat.
	ReadFrame() (*gocv.Mat, error)

	// Dimensions returns the negotiated frame size. Valid only while open.
	Dimensions() (width, height int)

	IsOpen() bool
}

// cameraImpl manages video capture from a single camera device using GoCV.
type cameraImpl struct {
	deviceID   int
	hintWidth  int
	hintHeight int
	capture    *gocv.VideoCapture
	mu         sync.Mutex
	running    bool
	width      int
	height     int
}

// NewCamera creates a new Camera for the given V4L2 device ID using the
// preferred resolution hint.
func NewCamera(deviceID int) Camera {
	return NewCameraWithHint(deviceID, PreferredWidth, PreferredHeight)
}

// NewCameraWithHint creates a Camera requesting a specific resolution.
// Non-positive dimensions fall back to the preferred resolution.
func NewCameraWithHint(deviceID, width, height int) Camera {
	if width <= 0 || height <= 0 {
		width, height = PreferredWidth, PreferredHeight
	}
	return &cameraImpl{deviceID: deviceID, hintWidth: width, hintHeight: height}
}

// Open opens the camera, requests the preferred resolution, and reads back
// the negotiated dimensions. Opening an already-open camera is a no-op.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return &Error{Kind: classifyOpenFailure(c.deviceID), Err: err}
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.hintWidth))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.hintHeight))

	width := int(capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(capture.Get(gocv.VideoCaptureFrameHeight))
	if width <= 0 || height <= 0 {
		capture.Close()
		return &Error{
			Kind: KindDeviceUnsupported,
			Err:  fmt.Errorf("device %d reported %dx%d frames", c.deviceID, width, height),
		}
	}

	c.capture = capture
	c.width = width
	c.height = height
	c.running = true

	return nil
}

// Close closes the camera and releases resources. Idempotent.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false
	c.width = 0
	c.height = 0

	return err
}

// ReadFrame reads a single frame from the camera.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrNotReady
	}

	return &mat, nil
}

// Dimensions returns the negotiated frame size, or zeros when closed.
func (c *cameraImpl) Dimensions() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.width, c.height
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// classifyOpenFailure inspects the device node to decide why the open
// failed. GoCV flattens the OS error, so the node itself is the only
// reliable signal.
func classifyOpenFailure(deviceID int) ErrorKind {
	path := fmt.Sprintf("/dev/video%d", deviceID)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return KindDeviceNotFound
	}

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return KindPermissionDenied
		}
		return KindUnknown
	}
	f.Close()

	// Node exists and is readable, yet the capture open failed: the device
	// refused our capture mode.
	return KindDeviceUnsupported
}
