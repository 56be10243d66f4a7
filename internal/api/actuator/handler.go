// Package actuator exposes operational endpoints: health, info and
// Prometheus metrics. Responses are plain JSON, not the result envelope.
package actuator

import (
	"context"
	"net/http"
	"time"

	"hogwarts-artifacts/internal/infra/health"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type Handler struct {
	checks   map[string]Pinger
	diskPath string
	info     Info
	registry *prometheus.Registry
}

func NewHandler(info Info, registry *prometheus.Registry, checks map[string]Pinger) *Handler {
	return &Handler{checks: checks, diskPath: ".", info: info, registry: registry}
}

// Health aggregates the disk report and every dependency check. Any DOWN
// component turns the whole status DOWN with a 503.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]health.Report, len(h.checks)+1)
	overall := health.StatusUp

	disk, err := health.UsableDisk(h.diskPath)
	if err != nil {
		disk.Details = map[string]any{"error": err.Error()}
	}
	components["usableMemory"] = disk
	if disk.Status != health.StatusUp {
		overall = health.StatusDown
	}

	for name, p := range h.checks {
		report := health.Report{Status: health.StatusUp}
		if err := p.Ping(ctx); err != nil {
			report = health.Report{Status: health.StatusDown, Details: map[string]any{"error": err.Error()}}
			overall = health.StatusDown
		}
		components[name] = report
	}

	status := http.StatusOK
	if overall != health.StatusUp {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}

func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"app": h.info})
}

func (h *Handler) Prometheus() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
}
