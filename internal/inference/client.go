// Package inference sends encoded camera frames to the remote hand-landmark
// service and parses its responses.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ayusman/mudra/internal/landmarks"
)

// ProcessPath is the frame-processing endpoint on the inference service.
const ProcessPath = "/process_frame"

// Client defines the interface to the hand-landmark inference service.
type Client interface {
	// Process submits one JPEG-encoded frame and returns the parsed result.
	// A transport or decode failure returns an error; a result with
	// Success=false carries the service-side failure. Callers treat both
	// identically (log, leave the overlay untouched).
	Process(ctx context.Context, jpegFrame []byte) (*landmarks.Result, error)
}

// HTTPClient talks to the inference service over a single request/response
// exchange per frame. No retries; timeouts are whatever the underlying
// http.Client is configured with.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a client for the service at the given base URL
// (e.g. "http://localhost:5000"). A nil http.Client falls back to
// http.DefaultClient.
func NewHTTPClient(endpoint string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{endpoint: endpoint, client: client}
}

type processRequest struct {
	Image string `json:"image"`
}

// Process encodes the frame as a JPEG data URL and POSTs it to the service.
func (c *HTTPClient) Process(ctx context.Context, jpegFrame []byte) (*landmarks.Result, error) {
	body, err := json.Marshal(processRequest{Image: EncodeDataURL(jpegFrame)})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+ProcessPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send frame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("inference service returned %s", resp.Status)
	}

	var result landmarks.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &result, nil
}

// EncodeDataURL wraps raw JPEG bytes in the data-URL transport encoding the
// service expects.
func EncodeDataURL(jpegFrame []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegFrame)
}
