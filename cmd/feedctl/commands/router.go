package commands

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/newsfeed-client/pkg/assets"
	"github.com/Sternrassler/newsfeed-client/pkg/feed"
	"github.com/Sternrassler/newsfeed-client/pkg/metrics"
	"github.com/Sternrassler/newsfeed-client/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// stateResponse is the JSON form of pagination.State.
type stateResponse struct {
	Items       []feed.Item `json:"items"`
	CurrentPage int         `json:"currentPage"`
	TotalCount  int         `json:"totalCount"`
	IsLoading   bool        `json:"isLoading"`
	HasMore     bool        `json:"hasMore"`
	LastError   string      `json:"lastError,omitempty"`
}

func newStateResponse(s pagination.State) stateResponse {
	resp := stateResponse{
		Items:       s.Items,
		CurrentPage: s.CurrentPage,
		TotalCount:  s.TotalCount,
		IsLoading:   s.IsLoading,
		HasMore:     s.HasMore,
	}
	if resp.Items == nil {
		resp.Items = []feed.Item{}
	}
	if s.LastError != nil {
		resp.LastError = s.LastError.Error()
	}
	return resp
}

type feedHandler struct {
	controller  *pagination.Controller
	coordinator *assets.Coordinator
	logger      zerolog.Logger
}

// newRouter creates the chi router serving the feed.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /metrics - Prometheus metrics
//   - GET /feed - Current feed state
//   - POST /feed/refresh - Reload from the first page
//   - POST /feed/more - Load the next page
//   - GET /assets?key= - Resolve an asset through the shared cache
func newRouter(ctl *pagination.Controller, coord *assets.Coordinator, logger zerolog.Logger) http.Handler {
	h := &feedHandler{controller: ctl, coordinator: coord, logger: logger}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/feed", func(r chi.Router) {
		r.Get("/", h.state)
		r.Post("/refresh", h.refresh)
		r.Post("/more", h.more)
	})

	r.Get("/assets", h.asset)

	return r
}

func (h *feedHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStateResponse(h.controller.State()))
}

func (h *feedHandler) refresh(w http.ResponseWriter, r *http.Request) {
	h.writeLoad(w, h.controller.LoadInitial(r.Context()))
}

func (h *feedHandler) more(w http.ResponseWriter, r *http.Request) {
	h.writeLoad(w, h.controller.LoadMore(r.Context()))
}

// writeLoad answers a load request with the resulting state. A failed page
// is reported as 502 with the unchanged items.
func (h *feedHandler) writeLoad(w http.ResponseWriter, err error) {
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, newStateResponse(h.controller.State()))
}

func (h *feedHandler) asset(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")

	asset, err := h.coordinator.Resolve(r.Context(), key)
	if err != nil {
		writeJSON(w, assetErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(asset.Size()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(asset.Data); err != nil {
		h.logger.Debug().Err(err).Str("key", key).Msg("Failed to write asset")
	}
}

func assetErrorStatus(err error) int {
	if errors.Is(err, feed.ErrInvalidKey) {
		return http.StatusBadRequest
	}
	switch feed.KindOf(err) {
	case feed.KindInvalidRequest:
		return http.StatusBadRequest
	case feed.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			event := logger.Info()
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				event = logger.Debug()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}
