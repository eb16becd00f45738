package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera is a test implementation of the Camera interface. It plays back
// pre-recorded frames and can simulate open failures and not-ready ticks.
type MockCamera struct {
	mu      sync.Mutex
	frames  []*gocv.Mat
	index   int
	loop    bool
	running bool
	ready   bool
	width   int
	height  int
	openErr error

	opens  int
	closes int
	reads  int
}

// NewMockCamera creates a MockCamera that plays back the given frames.
// The camera reports 640x480 until SetDimensions is called.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
		ready:  true,
		width:  PreferredWidth,
		height: PreferredHeight,
	}
}

// SetOpenError makes the next Open fail with the given error.
func (c *MockCamera) SetOpenError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openErr = err
}

// SetReady controls whether ReadFrame reports a buffered frame. When false,
// ReadFrame returns ErrNotReady, simulating a sink that has not filled yet.
func (c *MockCamera) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// SetDimensions overrides the negotiated frame size reported by Dimensions.
func (c *MockCamera) SetDimensions(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
	c.height = height
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.openErr != nil {
		return c.openErr
	}

	c.opens++
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.closes++
	}
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if !c.ready || len(c.frames) == 0 {
		return nil, ErrNotReady
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, ErrNotReady
		}
		c.index = 0
	}

	// Clone so the caller can close its copy without touching ours.
	frame := c.frames[c.index].Clone()
	c.index++
	c.reads++

	return &frame, nil
}

func (c *MockCamera) Dimensions() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// OpenCount reports how many successful opens occurred.
func (c *MockCamera) OpenCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

// CloseCount reports how many effective closes occurred (no-op closes are
// not counted).
func (c *MockCamera) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// ReadCount reports how many frames were handed out.
func (c *MockCamera) ReadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
