package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/suburbscope/internal/middleware"
	"github.com/stwalsh4118/suburbscope/internal/models"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout bounds the upstream reachability probe
	HealthCheckTimeout = 2 * time.Second
)

// Upstream status values reported by Ready.
const (
	UpstreamReachable   = "reachable"
	UpstreamUnreachable = "unreachable"
)

// UpstreamProber checks whether the listings API host accepts connections.
type UpstreamProber interface {
	Probe(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	prober       UpstreamProber
	upstreamHost string
	fallback     func() []models.RawListing
	startTime    time.Time
	env          string
}

// NewHealthHandler creates a new HealthHandler instance for the given
// listings API URL and fallback provider.
func NewHealthHandler(upstreamURL string, fallback func() []models.RawListing, env string) *HealthHandler {
	addr := upstreamAddress(upstreamURL)
	return &HealthHandler{
		prober:       tcpProber{addr: addr},
		upstreamHost: addr,
		fallback:     fallback,
		startTime:    time.Now(),
		env:          env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status           string `json:"status"`
	UpstreamHost     string `json:"upstream_host"`
	Upstream         string `json:"upstream"`
	FallbackListings int    `json:"fallback_listings"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health endpoint.
// This is a basic health check that always returns 200 OK.
// It does not check any dependencies and is used for basic liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 while the fallback set is non-empty, 503 otherwise.
// Upstream reachability is reported but does not affect the status.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	upstream := UpstreamReachable
	if err := h.prober.Probe(ctx); err != nil {
		upstream = UpstreamUnreachable
		if log := middleware.GetLogger(c); log != nil {
			log.Warn("Listings API probe failed", map[string]interface{}{
				"host":    h.upstreamHost,
				"timeout": HealthCheckTimeout.String(),
				"error":   err.Error(),
			})
		}
	}

	fallbackCount := 0
	if h.fallback != nil {
		fallbackCount = len(h.fallback())
	}

	response := ReadyResponse{
		Status:           "ready",
		UpstreamHost:     h.upstreamHost,
		Upstream:         upstream,
		FallbackListings: fallbackCount,
	}
	if fallbackCount == 0 {
		response.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(uptime),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// upstreamAddress derives host:port from the listings API URL, defaulting
// the port from the scheme.
func upstreamAddress(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	if u.Port() != "" {
		return u.Host
	}
	port := "443"
	if u.Scheme == "http" {
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port)
}

// tcpProber dials the upstream address without sending a request.
type tcpProber struct {
	addr string
}

func (p tcpProber) Probe(ctx context.Context) error {
	if p.addr == "" {
		return fmt.Errorf("no upstream address configured")
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
