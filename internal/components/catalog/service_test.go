package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetconsole/internal/shared/apiclient"
	"sweetconsole/internal/shared/config"
	"sweetconsole/internal/shared/storage"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{APIBaseURL: srv.URL, DataDir: t.TempDir()}
	store, err := storage.NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	return NewService(apiclient.New(cfg, store, zerolog.Nop()), zerolog.Nop())
}

func TestService_GetAll(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sweets", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Gulab Jamun","quantity":100},{"id":2,"name":"Rasgulla","stock":80}]`))
	}))

	sweets, err := service.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sweets, 2)
	assert.Equal(t, 100, sweets[0].Stock)
	assert.Equal(t, 80, sweets[1].Stock)
}

func TestService_GetAllToleratesNonArray(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "object", body: `{"message":"no sweets"}`},
		{name: "empty body", body: ``},
		{name: "null", body: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			sweets, err := service.GetAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, sweets)
		})
	}
}

func TestService_GetAllTransportError(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := service.GetAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load sweets", err.Error())
}

func TestService_CreateSendsQuantity(t *testing.T) {
	var gotBody map[string]any
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sweets", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"9","name":"Jalebi","category":"Traditional","price":60,"quantity":50,"image":""}`))
	}))

	created, err := service.Create(context.Background(), Draft{
		Name: "Jalebi", Category: "Traditional", Price: "60", Stock: "50", Image: "",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(60), gotBody["price"])
	assert.Equal(t, float64(50), gotBody["quantity"])
	assert.Equal(t, ID("9"), created.ID)
	assert.Equal(t, 50, created.Stock)
}

func TestService_CreateFallbackError(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := service.Create(context.Background(), Draft{
		Name: "Jalebi", Category: "Traditional", Price: "60", Stock: "50",
	})
	require.Error(t, err)
	assert.Equal(t, "Failed to create sweet. Please try again.", err.Error())
}

func TestService_UpdateHitsItemEndpoint(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/sweets/7", r.URL.Path)
		w.Write([]byte(`{"id":"7","name":"Barfi","quantity":25}`))
	}))

	updated, err := service.Update(context.Background(), "7", Draft{
		Name: "Barfi", Category: "Milk", Price: "70", Stock: "25",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Stock)
}

func TestService_Delete(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/sweets/3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, service.Delete(context.Background(), "3"))
}

func TestService_RestockAndPurchaseSubEndpoints(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"1","name":"Ladoo","quantity":150}`))
	}))

	restocked, err := service.Restock(context.Background(), "1", 50)
	require.NoError(t, err)
	assert.Equal(t, "/sweets/1/restock", gotPath)
	assert.Equal(t, float64(50), gotBody["quantity"])
	assert.Equal(t, 150, restocked.Stock)

	purchased, err := service.Purchase(context.Background(), "1", 5)
	require.NoError(t, err)
	assert.Equal(t, "/sweets/1/purchase", gotPath)
	assert.Equal(t, float64(5), gotBody["quantity"])
	assert.Equal(t, 150, purchased.Stock)
}

func TestService_PurchaseServerMessage(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Insufficient stock"}`))
	}))

	_, err := service.Purchase(context.Background(), "1", 500)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock", err.Error())
}
