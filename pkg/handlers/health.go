package handlers

import (
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/config"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/llm"
)

// DatasetInfo describes the loaded dataset. *store.Store satisfies it.
type DatasetInfo interface {
	Len() int
	States() []string
	Years() []string
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string         `json:"status"`
	Dataset  *DatasetStats  `json:"dataset,omitempty"`
	Fallback *FallbackStats `json:"fallback,omitempty"`
}

// DatasetStats summarizes the in-memory dataset.
type DatasetStats struct {
	Records int      `json:"records"`
	States  int      `json:"states"`
	Years   []string `json:"years"`
}

// FallbackStats reports the generative fallback circuit.
type FallbackStats struct {
	Circuit             string `json:"circuit"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname"`
	Environment string `json:"environment"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg     *config.Config
	dataset DatasetInfo
	breaker *llm.CircuitBreaker
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. dataset and breaker are
// optional and only enrich the /health body.
func NewHealthHandler(cfg *config.Config, dataset DatasetInfo, breaker *llm.CircuitBreaker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, dataset: dataset, breaker: breaker, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}

	if h.dataset != nil {
		resp.Dataset = &DatasetStats{
			Records: h.dataset.Len(),
			States:  len(h.dataset.States()),
			Years:   h.dataset.Years(),
		}
	}
	if h.breaker != nil {
		resp.Fallback = &FallbackStats{
			Circuit:             h.breaker.State().String(),
			ConsecutiveFailures: h.breaker.ConsecutiveFailures(),
		}
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Ping handles GET /ping requests.
// Returns detailed service information including version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "ekaya-groundwater",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
