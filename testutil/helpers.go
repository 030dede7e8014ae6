package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/andyle182810/webber/httpclient"
)

func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}

	return hex.EncodeToString(bytes)[:length]
}

// ErrorRecorder is an httpclient.ErrorHandler that remembers every envelope
// it was handed.
type ErrorRecorder struct {
	mu    sync.Mutex
	calls []httpclient.Response
}

func (r *ErrorRecorder) Handle(resp *httpclient.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, *resp)
}

func (r *ErrorRecorder) Calls() []httpclient.Response {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make([]httpclient.Response, len(r.calls))
	copy(calls, r.calls)

	return calls
}

func (r *ErrorRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.calls)
}
