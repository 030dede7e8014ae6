package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/andyle182810/webber/config"
	"github.com/andyle182810/webber/textenc"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client issues one blocking request per invocation. Its configuration is
// fixed by New, so a Client can be shared between goroutines.
type Client struct {
	applicationName string
	errorHandler    ErrorHandler
	logger          zerolog.Logger
	timeout         time.Duration
	httpClient      *http.Client
	requestID       bool
	defaultHeaders  map[string]string
	transport       *resty.Client
	registryHandler func() ErrorHandler
}

func New(opts ...Option) *Client {
	c := &Client{
		applicationName: DefaultApplicationName,
		errorHandler:    nil,
		logger:          log.Logger,
		timeout:         DefaultTimeout,
		httpClient:      nil,
		requestID:       false,
		defaultHeaders:  make(map[string]string),
		transport:       nil,
		registryHandler: nil,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.transport = c.newTransport()

	return c
}

func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	return New(append(configOptions(cfg), opts...)...)
}

func configOptions(cfg *config.Config) []Option {
	opts := []Option{
		WithApplicationName(cfg.AppName),
		WithTimeout(cfg.Timeout),
	}

	if cfg.RequestID {
		opts = append(opts, WithRequestID())
	}

	return opts
}

func (c *Client) newTransport() *resty.Client {
	var transport *resty.Client

	if c.httpClient != nil {
		transport = resty.NewWithClient(c.httpClient)
	} else {
		transport = resty.New().SetTimeout(c.timeout)
	}

	return transport.
		SetLogger(newRestyLogger(c.logger)).
		SetRetryCount(0).
		SetCloseConnection(true).
		SetAllowGetMethodPayload(true).
		SetPreRequestHook(dropImplicitAccept)
}

// implicitAcceptKey marks requests whose caller never set Accept. resty copies
// a JSON or XML Content-Type into Accept, and only headers the caller asked
// for may go out.
type implicitAcceptKey struct{}

func dropImplicitAccept(_ *resty.Client, raw *http.Request) error {
	if implicit, _ := raw.Context().Value(implicitAcceptKey{}).(bool); implicit {
		raw.Header.Del(HeaderAccept)
	}

	return nil
}

func (c *Client) acceptRequested(req Request) bool {
	if req.Headers.Get(HeaderAccept) != "" {
		return true
	}

	for name := range c.defaultHeaders {
		if http.CanonicalHeaderKey(name) == HeaderAccept {
			return true
		}
	}

	return false
}

func (c *Client) ApplicationName() string {
	return c.applicationName
}

func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) *Response {
	return c.Invoke(ctx, newRequest(MethodGet, rawURL, "", opts...))
}

func (c *Client) Post(ctx context.Context, rawURL, body string, opts ...RequestOption) *Response {
	return c.Invoke(ctx, newRequest(MethodPost, rawURL, body, opts...))
}

func (c *Client) Put(ctx context.Context, rawURL, body string, opts ...RequestOption) *Response {
	return c.Invoke(ctx, newRequest(MethodPut, rawURL, body, opts...))
}

func (c *Client) Patch(ctx context.Context, rawURL, body string, opts ...RequestOption) *Response {
	return c.Invoke(ctx, newRequest(MethodPatch, rawURL, body, opts...))
}

// Invoke never returns an error: a request that produced no response comes
// back with Success false and StatusTransportFailure, after the error
// handler has seen it.
func (c *Client) Invoke(ctx context.Context, req Request) *Response {
	req = req.withDefaults()

	resp, err := c.send(ctx, req)
	if err != nil {
		return c.transportFailure(req, err)
	}

	return resp
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if !target.IsAbs() || target.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute url", ErrInvalidURL, req.URL)
	}

	outgoing, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", target.Redacted()).
		Msg("The HTTP request is being sent")

	raw, err := outgoing.Execute(req.Method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	req.Credentials.observe(raw.StatusCode())

	return &Response{
		StatusCode:  raw.StatusCode(),
		Success:     true,
		RawBody:     string(raw.Body()),
		ContentType: raw.Header().Get(HeaderContentType),
		Headers:     raw.Header(),
	}, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*resty.Request, error) {
	if !c.acceptRequested(req) {
		ctx = context.WithValue(ctx, implicitAcceptKey{}, true)
	}

	outgoing := c.transport.R().SetContext(ctx)

	for k, v := range c.defaultHeaders {
		outgoing.SetHeader(k, v)
	}

	outgoing.SetHeader(HeaderContentType, req.ContentType)
	outgoing.SetHeader(HeaderUserAgent, c.applicationName)

	if c.requestID {
		outgoing.SetHeader(HeaderXRequestID, uuid.New().String())
	}

	if req.Body != "" {
		payload, err := textenc.Resolve(req.Encoding).Encode(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}

		outgoing.SetBody(payload)
	}

	for name, values := range req.Headers {
		for _, value := range values {
			outgoing.Header.Add(name, value)
		}
	}

	if err := req.Credentials.apply(ctx, outgoing); err != nil {
		return nil, err
	}

	return outgoing, nil
}

func (c *Client) transportFailure(req Request, err error) *Response {
	c.logger.Error().
		Err(err).
		Str("method", req.Method).
		Str("url", redact(req.URL)).
		Msg("The HTTP request has failed before a response was received")

	resp := &Response{
		StatusCode:  StatusTransportFailure,
		Success:     false,
		RawBody:     err.Error(),
		ContentType: "",
		Headers:     nil,
	}

	c.notify(*resp)

	return resp
}

func newRequest(method, rawURL, body string, opts ...RequestOption) Request {
	req := Request{ //nolint:exhaustruct
		URL:    rawURL,
		Body:   body,
		Method: method,
	}

	for _, opt := range opts {
		opt(&req)
	}

	return req
}

func redact(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	return parsed.Redacted()
}
