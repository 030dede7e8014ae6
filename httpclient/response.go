package httpclient

import (
	"net/http"

	"github.com/andyle182810/webber/textenc"
)

// StatusTransportFailure marks an envelope for which no response was received.
const StatusTransportFailure = -1

type Request struct {
	URL         string
	Body        string
	ContentType string
	Method      string
	Encoding    textenc.Encoding
	Credentials *Credentials
	Headers     http.Header
}

func (r Request) withDefaults() Request {
	if r.ContentType == "" {
		r.ContentType = ContentTypeJSON
	}

	if r.Method == "" {
		r.Method = MethodPost
	}

	return r
}

// Response is the untyped envelope of a single invocation. Success only says
// that a response arrived; a 404 or 500 is still a success here.
type Response struct {
	StatusCode  int
	Success     bool
	RawBody     string
	ContentType string
	Headers     http.Header
}

func (r *Response) IsSuccessStatus() bool {
	return r.Success && r.StatusCode >= 200 && r.StatusCode < 300
}

type TypedResponse[T any] struct {
	Response

	Result T
}

func newTypedResponse[T any](resp *Response) *TypedResponse[T] {
	return &TypedResponse[T]{
		Response: *resp,
	}
}
