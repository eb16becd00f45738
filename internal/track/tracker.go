// Package track owns the tracking session lifecycle: the fixed-rate frame
// sampling loop, dispatch to the inference client, and application of
// results to the overlay, plus the status line and start/stop control state.
package track

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/inference"
	"github.com/ayusman/mudra/internal/landmarks"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/store"
)

// Sampling defaults.
const (
	// DefaultInterval is the wall-clock sampling period (10 Hz). Ticks fire
	// independently of inference latency.
	DefaultInterval = 100 * time.Millisecond

	// DefaultJPEGQuality is the lossy encoding quality for sampled frames.
	DefaultJPEGQuality = 80
)

// ErrUnsupported is returned by Start when the platform has no capture
// capability. The condition is detected once at startup and never recovers.
var ErrUnsupported = errors.New("camera capture not supported")

// Config holds the tracker's collaborators and tuning knobs.
type Config struct {
	Camera   capture.Camera
	Client   inference.Client
	Renderer *overlay.Renderer

	// Store is optional; when set, session records are written on start and
	// finalized on stop. Frame data is never persisted.
	Store *store.Store

	Logger   *slog.Logger
	Controls Controls
	Status   StatusSink

	Interval    time.Duration
	JPEGQuality int

	// Supported is the one-time capability probe result. When false the
	// start control is permanently disabled.
	Supported bool
}

// session is the explicit per-run state. A sample timer exists if and only
// if a session is live; in-flight inference results are only applied when
// their generation still matches the live session.
type session struct {
	id         string
	generation uint64
	stopCh     chan struct{}
	done       chan struct{}
	width      int
	height     int
	startedAt  time.Time
	sampled    int64
	detected   int64
}

// State is a snapshot of the tracker for UI surfaces.
type State struct {
	Supported      bool
	Active         bool
	SessionID      string
	Status         string
	Width          int
	Height         int
	StartedAt      time.Time
	FramesSampled  int64
	FramesDetected int64
	Latest         landmarks.Result
}

// Tracker coordinates camera, sampler, inference client, and overlay
// renderer for at most one live session at a time.
type Tracker struct {
	camera    capture.Camera
	client    inference.Client
	renderer  *overlay.Renderer
	store     *store.Store
	logger    *slog.Logger
	controls  Controls
	status    StatusSink
	interval  time.Duration
	quality   int
	supported bool

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	sess       *session
	starting   bool
	generation uint64
	canvas     *overlay.MatCanvas
	latest     landmarks.Result
	statusLine string
}

// New creates a Tracker and puts the control surface into its initial state:
// start actionable (or permanently disabled when unsupported), stop not.
func New(cfg Config) *Tracker {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Controls == nil {
		cfg.Controls = NopControls{}
	}
	if cfg.Status == nil {
		cfg.Status = NopStatus{}
	}
	if cfg.Renderer == nil {
		cfg.Renderer = overlay.NewRenderer(overlay.DefaultStyle())
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}

	ctx, cancel := context.WithCancel(context.Background())

	t := &Tracker{
		camera:    cfg.Camera,
		client:    cfg.Client,
		renderer:  cfg.Renderer,
		store:     cfg.Store,
		logger:    cfg.Logger,
		controls:  cfg.Controls,
		status:    cfg.Status,
		interval:  cfg.Interval,
		quality:   cfg.JPEGQuality,
		supported: cfg.Supported,
		ctx:       ctx,
		cancel:    cancel,
	}

	t.controls.SetStopEnabled(false)
	if t.supported {
		t.controls.SetStartEnabled(true)
		t.publishStatus(StatusReady)
	} else {
		t.controls.SetStartEnabled(false)
		t.publishStatus(StatusUnsupported)
	}

	return t
}

// Start acquires the camera and begins the sampling loop. Starting while a
// session is already live (or while a start is in flight) is a no-op: no
// duplicate streams, no duplicate timers. A capture failure leaves the
// tracker inactive with the start control re-enabled and a failure-specific
// status line; the user retries by starting again.
func (t *Tracker) Start() error {
	t.mu.Lock()
	if !t.supported {
		t.mu.Unlock()
		return ErrUnsupported
	}
	if t.sess != nil || t.starting {
		t.mu.Unlock()
		return nil
	}
	t.starting = true
	t.mu.Unlock()

	t.controls.SetStartEnabled(false)
	t.publishStatus(StatusRequesting)

	if err := t.camera.Open(); err != nil {
		t.mu.Lock()
		t.starting = false
		t.mu.Unlock()

		t.controls.SetStartEnabled(true)
		t.controls.SetStopEnabled(false)
		t.publishStatus(capture.KindOf(err).StatusMessage())
		t.logger.Error("camera open failed", "error", err)
		return fmt.Errorf("start tracking: %w", err)
	}

	// Canvas dimensions are pinned to what the device negotiated at this
	// moment; mid-session resizes are not re-synced.
	width, height := t.camera.Dimensions()

	t.mu.Lock()
	t.starting = false
	t.generation++
	sess := &session{
		id:         uuid.NewString(),
		generation: t.generation,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		width:      width,
		height:     height,
		startedAt:  time.Now(),
	}
	t.sess = sess
	if t.canvas != nil {
		t.canvas.Close()
	}
	t.canvas = overlay.NewMatCanvas(width, height)
	t.latest = landmarks.Result{}
	t.mu.Unlock()

	if t.store != nil {
		rec := &store.Session{ID: sess.id, StartedAt: sess.startedAt, Width: width, Height: height}
		if err := t.store.Sessions().Create(rec); err != nil {
			t.logger.Warn("record session start", "error", err)
		}
	}

	t.controls.SetStopEnabled(true)
	t.publishStatus(StatusStarted)
	t.logger.Info("tracking started", "session", sess.id, "width", width, "height", height)

	go t.run(sess)
	return nil
}

// Stop tears the live session down: the timer is cancelled, the camera
// released, and the control surface restored. In-flight inference calls are
// not cancelled; their late results are discarded by the generation check so
// the overlay is never repainted after stop. Stopping when inactive is a
// no-op.
func (t *Tracker) Stop() {
	t.mu.Lock()
	sess := t.sess
	if sess == nil {
		t.mu.Unlock()
		return
	}
	t.sess = nil
	t.mu.Unlock()

	close(sess.stopCh)
	<-sess.done

	if err := t.camera.Close(); err != nil {
		t.logger.Error("camera close failed", "error", err)
	}

	t.mu.Lock()
	sampled, detected := sess.sampled, sess.detected
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.Sessions().Finish(sess.id, time.Now(), sampled, detected, "user"); err != nil {
			t.logger.Warn("record session stop", "error", err)
		}
	}

	t.controls.SetStopEnabled(false)
	t.controls.SetStartEnabled(true)
	t.publishStatus(StatusStopped)
	t.logger.Info("tracking stopped", "session", sess.id, "sampled", sampled, "detected", detected)
}

// Close stops tracking and cancels any in-flight inference requests. Used
// only at process shutdown.
func (t *Tracker) Close() {
	t.Stop()
	t.cancel()
}

// Active reports whether a session is live.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sess != nil
}

// State returns a snapshot for UI surfaces.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := State{
		Supported: t.supported,
		Status:    t.statusLine,
		Latest:    t.latest,
	}
	if t.sess != nil {
		st.Active = true
		st.SessionID = t.sess.id
		st.Width = t.sess.width
		st.Height = t.sess.height
		st.StartedAt = t.sess.startedAt
		st.FramesSampled = t.sess.sampled
		st.FramesDetected = t.sess.detected
	}
	return st
}

// CompositedFrame returns a clone of the latest video frame with the overlay
// painted on. ok is false before the first session starts. The caller owns
// the returned Mat.
func (t *Tracker) CompositedFrame() (*gocv.Mat, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.canvas == nil {
		return nil, false
	}
	mat := t.canvas.Mat().Clone()
	return &mat, true
}

// run is the session's sampling loop. The ticker is the sole driver of new
// work; it never waits for a prior tick's inference round-trip.
func (t *Tracker) run(sess *session) {
	defer close(sess.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.stopCh:
			return
		case <-ticker.C:
			t.tick(sess)
		}
	}
}

// tick samples one frame and dispatches it. A source with nothing buffered
// is skipped silently: no status change, no overlay change.
func (t *Tracker) tick(sess *session) {
	frame, err := t.camera.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrNotReady) || errors.Is(err, capture.ErrCameraNotOpen) {
			return
		}
		// The video source itself is failing. Surface it on the status line
		// but keep the session alive; the user is the retry mechanism.
		t.logger.Warn("read frame", "error", err)
		t.publishStatus(StatusCameraError(err))
		return
	}
	defer frame.Close()

	jpeg, err := encodeJPEG(frame, t.quality)
	if err != nil {
		t.logger.Warn("encode frame", "error", err)
		return
	}

	t.mu.Lock()
	if t.sess != sess {
		t.mu.Unlock()
		return
	}
	t.canvas.SetBase(frame)
	sess.sampled++
	t.mu.Unlock()

	// Overlapping round-trips are allowed; results land in arrival order.
	go func() {
		result, err := t.client.Process(t.ctx, jpeg)
		t.apply(sess.generation, result, err)
	}()
}

// apply paints an inference result. Results from a stopped or superseded
// session are discarded; per-frame failures are logged and leave both the
// overlay and the status line untouched so one bad frame never interrupts
// the live experience.
func (t *Tracker) apply(generation uint64, result *landmarks.Result, err error) {
	if err == nil && !result.Success {
		err = fmt.Errorf("inference rejected frame: %s", result.Err)
	}

	t.mu.Lock()
	sess := t.sess
	if sess == nil || sess.generation != generation {
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.mu.Unlock()
		t.logger.Debug("frame dropped", "error", err)
		return
	}

	if result.HandCount > 0 {
		sess.detected++
	}
	t.renderer.Render(t.canvas, result.Hands)
	t.latest = *result
	t.mu.Unlock()

	t.publishStatus(StatusHands(result.HandCount))
}

// publishStatus records and fans out the status line. Must be called
// without the tracker mutex held.
func (t *Tracker) publishStatus(status string) {
	t.mu.Lock()
	t.statusLine = status
	t.mu.Unlock()

	t.status.SetStatus(status)
}

// encodeJPEG compresses a frame into a standalone JPEG byte slice.
func encodeJPEG(frame *gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}
