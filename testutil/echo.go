package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/andyle182810/webber/mockapi"
	"github.com/rs/zerolog"
)

// MockAPI serves a mockapi.API on a loopback port for the duration of a
// test.
type MockAPI struct {
	api    *mockapi.API
	server *httptest.Server
}

func NewMockAPI(t *testing.T, opts ...mockapi.Option) *MockAPI {
	t.Helper()

	api := mockapi.New(zerolog.Nop(), opts...)
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return &MockAPI{api: api, server: server}
}

func (m *MockAPI) URL(path string) string {
	return m.server.URL + path
}

func (m *MockAPI) Requests() []mockapi.RecordedRequest {
	return m.api.Requests()
}

func (m *MockAPI) LastRequest(t *testing.T) mockapi.RecordedRequest {
	t.Helper()

	requests := m.api.Requests()
	if len(requests) == 0 {
		t.Fatal("The mock API has not received any request")
	}

	return requests[len(requests)-1]
}
