package authtoken

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Option func(*Client)

// WithHTTPClient replaces the transport; WithTimeout no longer applies.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithScope(scope string) Option {
	return func(c *Client) {
		c.scope = scope
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
