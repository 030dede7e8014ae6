// Package authtoken obtains OAuth2 client-credentials tokens and caches them
// until shortly before they expire. A *Client satisfies
// httpclient.TokenProvider, so it can back httpclient.TokenAuth.
package authtoken

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrTokenRequestFailed = errors.New("authtoken: token request failed")
	ErrNoAccessToken      = errors.New("authtoken: no access token in response")
)

const (
	DefaultTimeout       = 10 * time.Second
	tokenExpiryBuffer    = 30 * time.Second
	grantTypeCredentials = "client_credentials"
)

//nolint:tagliatelle
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

//nolint:tagliatelle
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type Client struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	timeout      time.Duration
	httpClient   *http.Client
	logger       zerolog.Logger
	transport    *resty.Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func New(tokenURL, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        "",
		timeout:      DefaultTimeout,
		httpClient:   nil,
		logger:       log.Logger,
		transport:    nil,
		mu:           sync.RWMutex{},
		accessToken:  "",
		expiresAt:    time.Time{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.transport = resty.NewWithClient(c.httpClient)
	} else {
		c.transport = resty.New().SetTimeout(c.timeout)
	}

	c.transport.SetRetryCount(0)

	return c
}

func (c *Client) GetToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		token := c.accessToken
		c.mu.RUnlock()

		return token, nil
	}
	c.mu.RUnlock()

	return c.refreshToken(ctx)
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	token, expiresIn, err := c.fetchToken(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("client_id", c.clientID).
			Msg("The access token could not be obtained")

		return "", err
	}

	c.accessToken = token
	c.expiresAt = time.Now().Add(time.Duration(expiresIn)*time.Second - tokenExpiryBuffer)

	c.logger.Debug().
		Str("client_id", c.clientID).
		Time("expires_at", c.expiresAt).
		Msg("A new access token has been obtained")

	return c.accessToken, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, int, error) {
	form := map[string]string{
		"grant_type":    grantTypeCredentials,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}

	if c.scope != "" {
		form["scope"] = c.scope
	}

	var (
		tokenResp tokenResponse
		tokenErr  oauthError
	)

	resp, err := c.transport.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&tokenResp).
		SetError(&tokenErr).
		Post(c.tokenURL)
	if err != nil {
		return "", 0, fmt.Errorf("failed to fetch token: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", 0, fmt.Errorf("%w: status %d, error=%s, description=%s",
			ErrTokenRequestFailed, resp.StatusCode(), tokenErr.Error, tokenErr.ErrorDescription)
	}

	if tokenResp.AccessToken == "" {
		return "", 0, ErrNoAccessToken
	}

	return tokenResp.AccessToken, tokenResp.ExpiresIn, nil
}

func (c *Client) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = ""
	c.expiresAt = time.Time{}
}
