package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/otcheredev/lims-admin-console/internal/cache"
)

type HealthHandler struct {
	cache  cache.Cache
	dbPing func() error // nil when the audit database is disabled
}

// NewHealthHandler creates a new health handler. dbPing may be nil.
func NewHealthHandler(c cache.Cache, dbPing func() error) *HealthHandler {
	return &HealthHandler{cache: c, dbPing: dbPing}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Health reports that the process is up
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := h.check(r.Context())

	code := http.StatusOK
	if response.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	jsonResponse(w, code, response)
}

// Ready checks the session store and the audit database
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.check(r.Context()).Status != "healthy" {
		http.Error(w, "Service not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *HealthHandler) check(ctx context.Context) healthResponse {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	response := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	if err := h.cache.Ping(ctx); err != nil {
		response.Services["cache"] = "unhealthy"
		response.Status = "degraded"
	} else {
		response.Services["cache"] = "healthy"
	}

	if h.dbPing != nil {
		if err := h.dbPing(); err != nil {
			response.Services["database"] = "unhealthy"
			response.Status = "degraded"
		} else {
			response.Services["database"] = "healthy"
		}
	}

	return response
}
