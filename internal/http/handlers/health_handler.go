// Health HTTP handlers.
//
// The health surface is deliberately tiny and read-only: it reports liveness
// and dependency connectivity from shared counters and flags, and it always
// answers 200 — dependency status is informational, never a gate on HTTP
// success, so the process stays "up" for platform health checks even while
// the store or index are unreachable.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-media-bot/internal/state"
)

// ServiceName identifies this process in the root status payload.
const ServiceName = "telegram_bot_poller"

// RootStatus is the dependency-connectivity report served at /.
type RootStatus struct {
	Status        string `json:"status" example:"ok"`
	Service       string `json:"service" example:"telegram_bot_poller"`
	SearchesTotal int64  `json:"searches_total" example:"1342"`
	UptimeSeconds int64  `json:"uptime_seconds" example:"86400"`
	Database      string `json:"database" example:"connected"`
	Algolia       string `json:"algolia" example:"connected"`
}

// HealthStatus is the liveness report served at /health.
type HealthStatus struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp int64  `json:"timestamp" example:"1756000000"`
	Uptime    int64  `json:"uptime" example:"86400"`
}

// HealthHandlers serves the health surface over the shared process state.
// It only ever reads atomic counters and flags.
type HealthHandlers struct {
	state *state.State
}

// NewHealth constructs the health surface over st.
func NewHealth(st *state.State) *HealthHandlers {
	return &HealthHandlers{state: st}
}

// Root godoc
// @ID          rootStatus
// @Summary     Service and dependency status
// @Description Reports liveness, the served-search counter, uptime, and store/index connectivity. Always 200; dependency status is informational.
// @Tags        Health
// @Produce     json
//
// @Success     200  {object}  handlers.RootStatus
// @Router      / [get]
func (h *HealthHandlers) Root(c *gin.Context) {
	db := "disconnected"
	if h.state.DBReady() {
		db = "connected"
	}
	idx := "disconnected"
	if h.state.SearchReady() {
		idx = "connected"
	}
	ok(c, http.StatusOK, RootStatus{
		Status:        "ok",
		Service:       ServiceName,
		SearchesTotal: h.state.Searches(),
		UptimeSeconds: int64(h.state.Uptime().Seconds()),
		Database:      db,
		Algolia:       idx,
	})
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Description Minimal liveness payload for platform monitors.
// @Tags        Health
// @Produce     json
//
// @Success     200  {object}  handlers.HealthStatus
// @Router      /health [get]
func (h *HealthHandlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Uptime:    int64(h.state.Uptime().Seconds()),
	})
}
