package inference

import (
	"context"
	"sync"

	"github.com/ayusman/mudra/internal/landmarks"
)

// Mock is a test implementation of the Client interface. Calls consume
// scripted responses in FIFO order; a scripted response may carry a gate
// channel that blocks completion until closed, which makes out-of-order
// completion reproducible. With no script, every call returns the default
// result.
type Mock struct {
	mu      sync.Mutex
	def     *landmarks.Result
	defErr  error
	scripts []scriptedResponse
	calls   int
}

type scriptedResponse struct {
	result *landmarks.Result
	err    error
	gate   chan struct{}
}

// NewMock creates a Mock whose default response is an empty successful result.
func NewMock() *Mock {
	return &Mock{def: &landmarks.Result{Success: true}}
}

// SetResult sets the default result returned by unscripted Process calls.
func (m *Mock) SetResult(r *landmarks.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.def = r
}

// SetError sets the default error returned by unscripted Process calls.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defErr = err
}

// Script queues a response for the next unconsumed Process call and returns
// a gate channel; the call does not complete until the gate is closed.
func (m *Mock) Script(result *landmarks.Result, err error) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.scripts = append(m.scripts, scriptedResponse{result: result, err: err, gate: gate})
	return gate
}

// Calls reports how many Process invocations have started.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Process returns the next scripted response, waiting on its gate, or the
// default response when the script queue is empty.
func (m *Mock) Process(ctx context.Context, jpegFrame []byte) (*landmarks.Result, error) {
	m.mu.Lock()
	m.calls++
	var s scriptedResponse
	scripted := len(m.scripts) > 0
	if scripted {
		s = m.scripts[0]
		m.scripts = m.scripts[1:]
	} else {
		s = scriptedResponse{result: m.def, err: m.defErr}
	}
	m.mu.Unlock()

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
