package cmd_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andyle182810/webber/cmd/webber/cmd"
	"github.com/andyle182810/webber/mockapi"
	"github.com/andyle182810/webber/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	code   int
}

func run(t *testing.T, args ...string) result {
	t.Helper()

	root := cmd.NewRootCmd("1.2.3", "2026-10-19")

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--no-color"}, args...))

	err := root.ExecuteContext(t.Context())

	return result{
		stdout: stdout.String(),
		stderr: stderr.String(),
		code:   cmd.ExitCode(err),
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	res := run(t, "version")

	require.Equal(t, cmd.ExitSuccess, res.code)
	assert.Equal(t, "webber version 1.2.3\nBuilt: 2026-10-19\n", res.stdout)
}

func TestGet_PrintsStatusAndBody(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)

	res := run(t, "get", api.URL("/posts/7"))

	require.Equal(t, cmd.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "HTTP 200 OK")

	var post mockapi.Post
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &post))
	assert.Equal(t, int64(7), post.ID)
	assert.Equal(t, "mock title", post.Title)
}

func TestGet_IncludePrintsHeaders(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)

	res := run(t, "get", "-i", api.URL("/text"))

	require.Equal(t, cmd.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Content-Type: text/plain")
	assert.Equal(t, "plain text\n", res.stdout)
}

func TestGet_Query(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)

	tests := []struct {
		name   string
		path   string
		query  string
		code   int
		stdout string
	}{
		{name: "string field", path: "/posts/3", query: "title", code: cmd.ExitSuccess, stdout: "mock title\n"},
		{name: "number field", path: "/posts/3", query: "userId", code: cmd.ExitSuccess, stdout: "1\n"},
		{name: "missing field", path: "/posts/3", query: "author.name", code: cmd.ExitNoMatch, stdout: ""},
		{name: "not json", path: "/text", query: "title", code: cmd.ExitNoMatch, stdout: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, "get", api.URL(tt.path), "--query", tt.query)

			require.Equal(t, tt.code, res.code, res.stderr)
			assert.Equal(t, tt.stdout, res.stdout)
		})
	}
}

func TestGet_ErrorStatusIsNotAFailure(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)

	res := run(t, "get", api.URL("/status/503"))

	require.Equal(t, cmd.ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "HTTP 503 Service Unavailable")
}

func TestPost_SendsBodyAndHeaders(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)

	res := run(t, "post", api.URL("/posts"),
		"-d", `{"title":"foo","body":"bar","userId":1}`,
		"-H", "X-Trace-Id: trace-9",
		"-H", "Accept-Language: en",
		"--app-name", "webber-test",
		"--query", "id",
	)

	require.Equal(t, cmd.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "HTTP 201 Created")
	assert.Equal(t, "101\n", res.stdout)

	recorded := api.LastRequest(t)
	assert.Equal(t, http.MethodPost, recorded.Method)
	assert.JSONEq(t, `{"title":"foo","body":"bar","userId":1}`, string(recorded.Body))
	assert.Equal(t, "trace-9", recorded.Header.Get("X-Trace-Id"))
	assert.Equal(t, "en", recorded.Header.Get("Accept-Language"))
	assert.Equal(t, "webber-test", recorded.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", recorded.Header.Get("Content-Type"))
}

func TestPut_EncodesBody(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)

	res := run(t, "put", api.URL("/echo"), "-d", "héllo", "--encoding", "utf-32", "--content-type", "text/xml")

	require.Equal(t, cmd.ExitSuccess, res.code, res.stderr)

	recorded := api.LastRequest(t)
	assert.Equal(t, http.MethodPut, recorded.Method)
	assert.Equal(t, int64(20), recorded.ContentLength)
	assert.Equal(t, "text/xml", recorded.Header.Get("Content-Type"))
}

func TestRequest_Credentials(t *testing.T) {
	t.Parallel()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "issued-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(tokenServer.Close)

	tests := []struct {
		name     string
		args     []string
		header   string
		expected string
	}{
		{
			name:     "basic",
			args:     []string{"--user", "alice:s3cret"},
			header:   "Authorization",
			expected: "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret")),
		},
		{
			name:     "bearer",
			args:     []string{"--token", "abc"},
			header:   "Authorization",
			expected: "Bearer abc",
		},
		{
			name:     "api key",
			args:     []string{"--api-key", "k-1", "--api-key-header", "X-Service-Key"},
			header:   "X-Service-Key",
			expected: "k-1",
		},
		{
			name:     "client credentials",
			args:     []string{"--token-url", tokenServer.URL, "--client-id", "cli", "--client-secret", "secret"},
			header:   "Authorization",
			expected: "Bearer issued-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := testutil.NewMockAPI(t)

			res := run(t, append([]string{"get", api.URL("/headers")}, tt.args...)...)

			require.Equal(t, cmd.ExitSuccess, res.code, res.stderr)
			assert.Equal(t, tt.expected, api.LastRequest(t).Header.Get(tt.header))
		})
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	res := run(t, "get", url)

	require.Equal(t, cmd.ExitNetworkError, res.code)
	assert.Contains(t, res.stderr, "no response:")
	assert.Empty(t, res.stdout)
}

func TestRequest_UsageErrors(t *testing.T) {
	t.Parallel()

	api := testutil.NewMockAPI(t)
	t.Cleanup(func() {
		assert.Empty(t, api.Requests())
	})

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing url", args: []string{"get"}},
		{name: "relative url", args: []string{"get", "/posts/1"}},
		{name: "unsupported scheme", args: []string{"get", "ftp://example.com/file"}},
		{name: "unknown flag", args: []string{"get", api.URL("/posts/1"), "--bogus"}},
		{name: "body on get", args: []string{"get", api.URL("/posts/1"), "-d", "{}"}},
		{name: "malformed header", args: []string{"get", api.URL("/posts/1"), "-H", "no-colon"}},
		{name: "unknown encoding", args: []string{"post", api.URL("/echo"), "--encoding", "ebcdic"}},
		{name: "malformed user", args: []string{"get", api.URL("/headers"), "--user", "alice"}},
		{name: "conflicting auth", args: []string{"get", api.URL("/headers"), "--user", "a:b", "--token", "t"}},
		{name: "incomplete oauth", args: []string{"get", api.URL("/headers"), "--token-url", api.URL("/token")}},
		{name: "invalid log level", args: []string{"get", api.URL("/posts/1"), "--log-level", "loud"}},
		{name: "empty content type", args: []string{"post", api.URL("/echo"), "--content-type", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, tt.args...)

			assert.Equal(t, cmd.ExitUsageError, res.code, res.stderr)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cmd.ExitSuccess, cmd.ExitCode(nil))
	assert.Equal(t, cmd.ExitUsageError, cmd.ExitCode(assert.AnError))
}

func TestMock_ServesUntilCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	root := cmd.NewRootCmd("1.2.3", "2026-10-19")

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"mock", "--port", "0", "--log-level", "error"})

	err := root.ExecuteContext(ctx)

	require.Equal(t, cmd.ExitSuccess, cmd.ExitCode(err), stderr.String())
	assert.Contains(t, stdout.String(), "Mock API listening on http://127.0.0.1:")
}

func TestMock_RejectsNegativeDelay(t *testing.T) {
	t.Parallel()

	res := run(t, "mock", "--delay", "-1s")

	assert.Equal(t, cmd.ExitUsageError, res.code)
}
