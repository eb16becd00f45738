package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/landmarks"
	"github.com/ayusman/mudra/internal/track"
)

// TrackHandler exposes the tracking lifecycle over HTTP: current state plus
// the start/stop command handlers.
type TrackHandler struct {
	tracker *track.Tracker
}

// NewTrackHandler creates a TrackHandler for the given tracker.
func NewTrackHandler(t *track.Tracker) *TrackHandler {
	return &TrackHandler{tracker: t}
}

type trackResponse struct {
	Supported      bool             `json:"supported"`
	Active         bool             `json:"active"`
	SessionID      string           `json:"session_id,omitempty"`
	Status         string           `json:"status"`
	Width          int              `json:"width,omitempty"`
	Height         int              `json:"height,omitempty"`
	FramesSampled  int64            `json:"frames_sampled"`
	FramesDetected int64            `json:"frames_detected"`
	HandCount      int              `json:"hand_count"`
	Hands          []landmarks.Hand `json:"landmarks,omitempty"`
}

func toTrackResponse(st track.State) trackResponse {
	return trackResponse{
		Supported:      st.Supported,
		Active:         st.Active,
		SessionID:      st.SessionID,
		Status:         st.Status,
		Width:          st.Width,
		Height:         st.Height,
		FramesSampled:  st.FramesSampled,
		FramesDetected: st.FramesDetected,
		HandCount:      st.Latest.HandCount,
		Hands:          st.Latest.Hands,
	}
}

// ServeHTTP routes /api/track and its start/stop subcommands.
func (h *TrackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/track")
	action = strings.TrimPrefix(action, "/")

	switch action {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, toTrackResponse(h.tracker.State()))

	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.start(w)

	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.tracker.Stop()
		writeJSON(w, http.StatusOK, toTrackResponse(h.tracker.State()))

	default:
		http.NotFound(w, r)
	}
}

func (h *TrackHandler) start(w http.ResponseWriter) {
	err := h.tracker.Start()
	switch {
	case errors.Is(err, track.ErrUnsupported):
		writeError(w, http.StatusConflict, track.StatusUnsupported)
	case err != nil:
		// The tracker already set a failure-specific status line; surface it.
		writeError(w, http.StatusInternalServerError, h.tracker.State().Status)
	default:
		writeJSON(w, http.StatusOK, toTrackResponse(h.tracker.State()))
	}
}
