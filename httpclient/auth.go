package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
	InvalidateToken()
}

type CredentialsType int

const (
	CredentialsBasic CredentialsType = iota + 1
	CredentialsBearer
	CredentialsAPIKey
	CredentialsToken
	CredentialsCustom
)

// Credentials are opaque to the invoker; they are only applied to the
// outgoing request.
type Credentials struct {
	Type     CredentialsType
	Username string
	Password string
	Token    string
	Header   string
	Key      string
	Provider TokenProvider
	Apply    func(*resty.Request)
}

func BasicAuth(username, password string) *Credentials {
	return &Credentials{Type: CredentialsBasic, Username: username, Password: password}
}

func BearerToken(token string) *Credentials {
	return &Credentials{Type: CredentialsBearer, Token: token}
}

func APIKey(header, key string) *Credentials {
	if header == "" {
		header = HeaderAPIKey
	}

	return &Credentials{Type: CredentialsAPIKey, Header: header, Key: key}
}

// TokenAuth fetches a bearer token from provider for every request. The
// cached token is invalidated when the server answers 401.
func TokenAuth(provider TokenProvider) *Credentials {
	return &Credentials{Type: CredentialsToken, Provider: provider}
}

func CustomAuth(apply func(*resty.Request)) *Credentials {
	return &Credentials{Type: CredentialsCustom, Apply: apply}
}

func (c *Credentials) apply(ctx context.Context, req *resty.Request) error {
	if c == nil {
		return nil
	}

	switch c.Type {
	case CredentialsBasic:
		req.SetBasicAuth(c.Username, c.Password)
	case CredentialsBearer:
		req.SetAuthToken(c.Token)
	case CredentialsAPIKey:
		req.SetHeader(c.Header, c.Key)
	case CredentialsToken:
		if c.Provider == nil {
			return nil
		}

		token, err := c.Provider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}

		req.SetAuthToken(token)
	case CredentialsCustom:
		if c.Apply != nil {
			c.Apply(req)
		}
	}

	return nil
}

func (c *Credentials) observe(statusCode int) {
	if c == nil || c.Type != CredentialsToken || c.Provider == nil {
		return
	}

	if statusCode == http.StatusUnauthorized {
		c.Provider.InvalidateToken()
	}
}
