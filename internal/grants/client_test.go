package grants

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/grantview/internal/grants/grantstest"
	"github.com/leapstack-labs/grantview/internal/testutil"
	"github.com/leapstack-labs/grantview/pkg/core"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{BaseURL: baseURL, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return c
}

// rawServer serves a fixed status and body for every request.
func rawServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		wantURL   string
		wantErr   bool
		errSubstr string
	}{
		{name: "default", baseURL: "", wantURL: DefaultBaseURL},
		{name: "explicit", baseURL: "https://grants.example.com/svc", wantURL: "https://grants.example.com/svc"},
		{name: "bad scheme", baseURL: "ftp://example.com", wantErr: true, errSubstr: "scheme"},
		{name: "missing host", baseURL: "http://", wantErr: true, errSubstr: "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(ClientConfig{BaseURL: tt.baseURL})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, c.BaseURL())
		})
	}
}

func TestClient_ListGrants(t *testing.T) {
	srv := grantstest.NewServer(t,
		core.Grant{Name: "A", Description: "d1", Tags: []string{"x", "y"}},
		core.Grant{Name: "B", Description: "d2", Tags: []string{"y"}},
	)
	c := newTestClient(t, srv.URL)

	list, err := c.ListGrants(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, []string{"x", "y"}, list[0].Tags)
	assert.Equal(t, "B", list[1].Name)
}

func TestClient_ListGrants_Decoding(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []core.Grant
	}{
		{name: "missing grants field", body: `{}`, want: []core.Grant{}},
		{name: "null grants", body: `{"grants": null}`, want: []core.Grant{}},
		{
			name: "extra fields ignored",
			body: `{"grants":[{"_id":"65f","grant_name":"A","grant_description":"d","website_urls":["u"],"tags":["x"]}]}`,
			want: []core.Grant{{Name: "A", Description: "d", Tags: []string{"x"}}},
		},
		{
			name: "absent tags",
			body: `{"grants":[{"grant_name":"A","grant_description":"d"}]}`,
			want: []core.Grant{{Name: "A", Description: "d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := rawServer(t, http.StatusOK, tt.body)
			list, err := newTestClient(t, srv.URL).ListGrants(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, list)
		})
	}
}

func TestClient_ListGrants_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := rawServer(t, http.StatusInternalServerError, `{"error":"db down"}`)
		_, err := newTestClient(t, srv.URL).ListGrants(context.Background())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "list", apiErr.Op)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "db down", apiErr.UserMessage())
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := rawServer(t, http.StatusOK, `<html>`)
		_, err := newTestClient(t, srv.URL).ListGrants(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed response")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestClient(t, url).ListGrants(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list grants")
	})
}

func TestClient_CreateGrant_RequestShape(t *testing.T) {
	var gotBody map[string]map[string]string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/grants", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	err := newTestClient(t, srv.URL).CreateGrant(context.Background(), core.NewGrant{Name: "N", Description: "D"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]map[string]string{
		"grant": {"grant_name": "N", "grant_description": "D"},
	}, gotBody)
}

func TestClient_CreateGrant_Status(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantMessage string
	}{
		{name: "200 ok", status: http.StatusOK, body: ``},
		{name: "201 created", status: http.StatusCreated, body: `{"message":"Successfully added N"}`},
		{name: "server message", status: http.StatusBadRequest, body: `{"error":"duplicate name"}`, wantErr: true, wantMessage: "duplicate name"},
		{name: "no error field", status: http.StatusInternalServerError, body: `{}`, wantErr: true, wantMessage: "failed to add grant"},
		{name: "non json", status: http.StatusBadGateway, body: `bad gateway`, wantErr: true, wantMessage: "failed to add grant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := rawServer(t, tt.status, tt.body)
			err := newTestClient(t, srv.URL).CreateGrant(context.Background(), core.NewGrant{Name: "N", Description: "D"})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, UserMessage(err))
		})
	}
}

func TestClient_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := grantstest.NewServer(t, core.Grant{Name: "A", Description: "d"})
		h, err := newTestClient(t, srv.URL).Health(context.Background())
		require.NoError(t, err)
		assert.True(t, h.Healthy())
		assert.Equal(t, 1, h.GrantsCount)
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv := grantstest.NewServer(t)
		srv.FailHealth(http.StatusInternalServerError, `{"status":"unhealthy","error":"no database"}`)

		h, err := newTestClient(t, srv.URL).Health(context.Background())
		require.Error(t, err)
		require.NotNil(t, h)
		assert.False(t, h.Healthy())
		assert.Equal(t, "no database", UserMessage(err))
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
	assert.Equal(t, "x", UserMessage(&APIError{Op: "create", StatusCode: 400, Message: "x"}))
	assert.Equal(t, "failed to load grants", UserMessage(&APIError{Op: "list", StatusCode: 500}))
}
