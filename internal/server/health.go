package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sweetconsole/internal/shared/apiclient"
)

type (
	// HealthSrvc reports whether the remote sweet shop API is reachable.
	HealthSrvc struct {
		client *apiclient.Client
		logger zerolog.Logger
	}

	// HealthResponse represents the response structure for the health
	// check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Upstream  bool      `json:"upstream"`
	}
)

func NewHealthSrvc(client *apiclient.Client, logger zerolog.Logger) *HealthSrvc {
	return &HealthSrvc{
		client: client,
		logger: logger.With().Str("component", "health").Logger(),
	}
}

func (s *HealthSrvc) healthCheck(ctx context.Context) HealthResponse {
	_, err := s.client.Get(ctx, "/sweets")

	if err != nil {
		return HealthResponse{
			Status:    "not serving",
			Timestamp: time.Now(),
			Upstream:  false,
		}
	}
	return HealthResponse{
		Status:    "serving",
		Timestamp: time.Now(),
		Upstream:  true,
	}
}

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := srvc.healthCheck(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if response.Upstream {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			srvc.logger.Error().Err(err).Msg("Failed to encode health check response")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		srvc.logger.Debug().Str("status", response.Status).Bool("upstream", response.Upstream).Msg("Health check completed")
	}
}
