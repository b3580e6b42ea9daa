package ops

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/inventory-dashboard/internal/dashboard/health"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// NewRouter builds the operations router: metrics, health and API docs
func NewRouter(checker *health.Checker, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.HandleFunc("/health", healthHandler(checker)).Methods(http.MethodGet)
	router.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, checker.QuickCheck())
	}).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return router
}

// NewServer wraps the router with tracing and CORS
func NewServer(port string, router *mux.Router) *http.Server {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:              ":" + port,
		Handler:           otelhttp.NewHandler(c.Handler(router), "dashboard-ops"),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthHandler(checker *health.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := checker.Check(r.Context())

		status := http.StatusOK
		if result.Status == health.StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, result)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}
