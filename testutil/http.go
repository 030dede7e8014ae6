package testutil

import (
	"encoding/json"
	"testing"

	"github.com/andyle182810/webber/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func AssertReceived(t *testing.T, resp *httpclient.Response, expectedStatus int) {
	t.Helper()

	require.NotNil(t, resp)
	assert.True(t, resp.Success, "Response should have been received: %s", resp.RawBody)
	assert.Equal(t, expectedStatus, resp.StatusCode, "Response status code mismatch")
}

func AssertTransportFailure(t *testing.T, resp *httpclient.Response) {
	t.Helper()

	require.NotNil(t, resp)
	assert.False(t, resp.Success, "Response should report a transport failure")
	assert.Equal(t, httpclient.StatusTransportFailure, resp.StatusCode)
	assert.NotEmpty(t, resp.RawBody, "Transport failure should carry diagnostics")
	assert.Empty(t, resp.ContentType)
}

func MustParseJSONBody(t *testing.T, resp *httpclient.Response, target any) {
	t.Helper()

	err := json.Unmarshal([]byte(resp.RawBody), target)

	require.NoError(t, err, "Failed to parse JSON response body")
}
