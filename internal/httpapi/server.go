package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vllmd/internal/resolver"
	"vllmd/pkg/types"
)

// Service defines the methods required by the sidecar HTTP API.
type Service interface {
	State() types.State
	Status() types.StatusResponse
	Resolve(ctx context.Context, baseModel, adapter string) (types.Resolution, error)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// Container-orchestration probe: 204 while the engine warms up,
	// 200 once it serves, 500 after a terminal failure.
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		switch svc.State() {
		case types.StateInitializing:
			w.WriteHeader(http.StatusNoContent)
		case types.StateReady:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.State() == types.StateReady {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Post("/v1/resolve", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		// Limit body size (configurable, default 1MiB)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.ResolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Adapter) == "" {
			writeJSONError(w, http.StatusBadRequest, "adapter is required")
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("adapter", req.Adapter).Str("base_model", req.BaseModel)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("resolve start")
		}
		res, err := svc.Resolve(r.Context(), req.BaseModel, req.Adapter)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			status := http.StatusInternalServerError
			if resolver.IsTransfer(err) {
				// the remote content source failed us, not the caller
				status = http.StatusBadGateway
			}
			writeJSONError(w, status, err.Error())
			if lvl >= LevelInfo && zlog != nil {
				z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
				if rid := middleware.GetReqID(r.Context()); rid != "" {
					z = z.Str("request_id", rid)
				}
				z.Err(err).Msg("resolve end")
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("status", "200").Dur("dur", time.Since(start))
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("resolve end")
		}
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}
