package httpclient

import (
	"maps"
	"net/http"
	"time"

	"github.com/andyle182810/webber/textenc"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout         = 30 * time.Second
	DefaultApplicationName = "Webber"

	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	HeaderAPIKey        = "X-API-Key"
)

const (
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeAtomFeed       = "application/atom+xml"
	ContentTypeJSON           = "application/json"
	ContentTypeJavaScript     = "application/javascript"
	ContentTypeSOAP           = "application/soap+xml"
	ContentTypeXML            = "text/xml"
	ContentTypeHTML           = "text/html"
)

const (
	MethodPost  = http.MethodPost
	MethodGet   = http.MethodGet
	MethodPut   = http.MethodPut
	MethodPatch = http.MethodPatch
)

type Option func(*Client)

func WithApplicationName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.applicationName = name
		}
	}
}

func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *Client) {
		c.errorHandler = handler
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout is ignored when WithHTTPClient supplies the transport.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithRequestID() Option {
	return func(c *Client) {
		c.requestID = true
	}
}

func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		maps.Copy(c.defaultHeaders, headers)
	}
}

type RequestOption func(*Request)

func WithContentType(contentType string) RequestOption {
	return func(r *Request) {
		r.ContentType = contentType
	}
}

func WithEncoding(encoding textenc.Encoding) RequestOption {
	return func(r *Request) {
		r.Encoding = encoding
	}
}

func WithCredentials(credentials *Credentials) RequestOption {
	return func(r *Request) {
		r.Credentials = credentials
	}
}

func WithHeader(name, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(http.Header)
		}

		r.Headers.Add(name, value)
	}
}

func WithHeaders(headers http.Header) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(http.Header, len(headers))
		}

		for name, values := range headers {
			for _, value := range values {
				r.Headers.Add(name, value)
			}
		}
	}
}
