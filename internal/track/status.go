package track

import "fmt"

// Status line texts. Each capture failure kind additionally has its own
// message (see capture.ErrorKind.StatusMessage); skipped ticks never change
// the status line.
const (
	StatusReady       = "Ready."
	StatusUnsupported = "Camera capture is not supported on this system."
	StatusRequesting  = "Requesting camera..."
	StatusStarted     = "Tracking started."
	StatusStopped     = "Stopped."
)

// StatusHands is the active-with-count status line.
func StatusHands(count int) string {
	return fmt.Sprintf("Tracking: %d hand(s)", count)
}

// StatusCameraError is the status line for a failing video source
// mid-session. The session keeps running; the user decides whether to stop.
func StatusCameraError(err error) string {
	return fmt.Sprintf("Camera error: %v", err)
}
