package httpclient_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/andyle182810/webber/httpclient"
	"github.com/andyle182810/webber/testutil"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTokenUnavailable = errors.New("token endpoint unavailable")

type fakeTokenProvider struct {
	token       string
	err         error
	calls       atomic.Int32
	invalidated atomic.Int32
}

func (p *fakeTokenProvider) GetToken(context.Context) (string, error) {
	p.calls.Add(1)

	return p.token, p.err
}

func (p *fakeTokenProvider) InvalidateToken() {
	p.invalidated.Add(1)
}

func TestCredentials_AppliedToRequest(t *testing.T) {
	t.Parallel()

	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret"))

	tests := []struct {
		name        string
		credentials *httpclient.Credentials
		header      string
		expected    string
	}{
		{
			name:        "basic",
			credentials: httpclient.BasicAuth("alice", "s3cret"),
			header:      "Authorization",
			expected:    basic,
		},
		{
			name:        "bearer",
			credentials: httpclient.BearerToken("abc.def"),
			header:      "Authorization",
			expected:    "Bearer abc.def",
		},
		{
			name:        "api key default header",
			credentials: httpclient.APIKey("", "key-1"),
			header:      "X-API-Key",
			expected:    "key-1",
		},
		{
			name:        "api key custom header",
			credentials: httpclient.APIKey("X-Service-Key", "key-2"),
			header:      "X-Service-Key",
			expected:    "key-2",
		},
		{
			name: "custom",
			credentials: httpclient.CustomAuth(func(req *resty.Request) {
				req.SetHeader("X-Signature", "signed")
			}),
			header:   "X-Signature",
			expected: "signed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := testutil.NewMockAPI(t)
			client := newClient()

			resp := client.Get(t.Context(), api.URL("/headers"), httpclient.WithCredentials(tt.credentials))

			testutil.AssertReceived(t, resp, http.StatusOK)
			assert.Equal(t, tt.expected, api.LastRequest(t).Header.Get(tt.header))
		})
	}
}

func TestCredentials_NilLeavesRequestUnauthenticated(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)
	client := newClient()

	resp := client.Get(t.Context(), api.URL("/headers"), httpclient.WithCredentials(nil))

	testutil.AssertReceived(t, resp, http.StatusOK)
	assert.Empty(t, api.LastRequest(t).Header.Get("Authorization"))
}

func TestTokenAuth_FetchesTokenPerRequest(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)
	client := newClient()
	provider := &fakeTokenProvider{token: "fresh-token"} //nolint:exhaustruct

	credentials := httpclient.TokenAuth(provider)

	client.Get(t.Context(), api.URL("/headers"), httpclient.WithCredentials(credentials))
	client.Get(t.Context(), api.URL("/headers"), httpclient.WithCredentials(credentials))

	require.Len(t, api.Requests(), 2)
	assert.Equal(t, int32(2), provider.calls.Load())
	assert.Zero(t, provider.invalidated.Load())
	assert.Equal(t, "Bearer fresh-token", api.LastRequest(t).Header.Get("Authorization"))
}

func TestTokenAuth_ProviderFailureIsTransportFailure(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)
	recorder := &testutil.ErrorRecorder{}
	client := newClient(httpclient.WithErrorHandler(recorder.Handle))
	provider := &fakeTokenProvider{err: errTokenUnavailable} //nolint:exhaustruct

	resp := client.Get(t.Context(), api.URL("/headers"),
		httpclient.WithCredentials(httpclient.TokenAuth(provider)))

	testutil.AssertTransportFailure(t, resp)
	assert.Contains(t, resp.RawBody, httpclient.ErrAuthFailed.Error())
	assert.Contains(t, resp.RawBody, errTokenUnavailable.Error())
	assert.Empty(t, api.Requests())
	assert.Equal(t, 1, recorder.Count())
}

func TestTokenAuth_UnauthorizedInvalidatesToken(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)
	client := newClient()
	provider := &fakeTokenProvider{token: "stale-token"} //nolint:exhaustruct

	resp := client.Get(t.Context(), api.URL("/status/401"),
		httpclient.WithCredentials(httpclient.TokenAuth(provider)))

	testutil.AssertReceived(t, resp, http.StatusUnauthorized)
	assert.Equal(t, int32(1), provider.invalidated.Load())
}
