package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetconsole/internal/shared/config"
	"sweetconsole/internal/shared/storage"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *storage.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{APIBaseURL: srv.URL, DataDir: t.TempDir()}
	store, err := storage.NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	return New(cfg, store, zerolog.Nop()), store
}

func TestClient_BearerTokenInjection(t *testing.T) {
	var gotAuth string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	_, err := client.Get(context.Background(), "/sweets")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	require.NoError(t, store.Set(storage.KeyAuthToken, "tok123"))
	_, err = client.Get(context.Background(), "/sweets")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestClient_PostSerializesJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true}`))
	}))

	raw, err := client.Post(context.Background(), "/sweets", map[string]any{"name": "Jalebi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Jalebi", gotBody["name"])
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{
			name:    "message field",
			status:  http.StatusBadRequest,
			body:    `{"message":"Insufficient stock"}`,
			message: "Insufficient stock",
		},
		{
			name:    "error field",
			status:  http.StatusUnauthorized,
			body:    `{"error":"Invalid credentials"}`,
			message: "Invalid credentials",
		},
		{
			name:    "no body falls back to generic verb message",
			status:  http.StatusInternalServerError,
			body:    "",
			message: "GET request failed with status 500",
		},
		{
			name:    "non-JSON body falls back to generic verb message",
			status:  http.StatusBadGateway,
			body:    "<html>bad gateway</html>",
			message: "GET request failed with status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.Get(context.Background(), "/sweets")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Error())
		})
	}
}

func TestClient_DeleteReturnsNoBody(t *testing.T) {
	var gotMethod string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Delete(context.Background(), "/sweets/1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestClient_RequestIDHeader(t *testing.T) {
	var gotID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`[]`))
	}))

	_, err := client.Get(context.Background(), "/sweets")
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
}
