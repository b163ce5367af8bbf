package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crazycube/graveyard-api/internal/graveyard"
	"github.com/crazycube/graveyard-api/internal/logger"
)

const (
	SERVICE_NAME = "crazycube-graveyard-api"

	// FRESH_QUERY_PARAM skips the cached report when set to a true value (1, true)
	FRESH_QUERY_PARAM = "fresh"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetClaimable classifies the burned tokens of an owner
	// GET /api/claimable/:address?fresh=1
	GetClaimable(c *gin.Context)

	// GetLedgerClaimable classifies the burned tokens of an owner found in BurnScheduled events
	// GET /api/ledger/claimable/:address?fresh=1
	GetLedgerClaimable(c *gin.Context)

	// GetGraveyardReady lists graveyard tokens split by grave release state
	// GET /api/graveyard/ready?fresh=1
	GetGraveyardReady(c *gin.Context)

	// PurgeCache drops every cached report (requires authentication)
	// POST /api/admin/cache/purge
	PurgeCache(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	service graveyard.Service
}

// NewHandler creates a new REST API handler
func NewHandler(service graveyard.Service) Handler {
	return &handler{
		service: service,
	}
}

// GetClaimable returns the claimable report of an owner
func (h *handler) GetClaimable(c *gin.Context) {
	report, err := h.service.Claimable(c.Request.Context(), c.Param("address"), parseFresh(c))
	if err != nil {
		respondServiceError(c, err, "Failed to build claimable report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetLedgerClaimable returns the event-ledger claimable report of an owner
func (h *handler) GetLedgerClaimable(c *gin.Context) {
	report, err := h.service.LedgerClaimable(c.Request.Context(), c.Param("address"), parseFresh(c))
	if err != nil {
		respondServiceError(c, err, "Failed to build ledger claimable report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetGraveyardReady returns the graveyard readiness report
func (h *handler) GetGraveyardReady(c *gin.Context) {
	report, err := h.service.GraveyardReady(c.Request.Context(), parseFresh(c))
	if err != nil {
		respondServiceError(c, err, "Failed to build graveyard report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// PurgeCache drops every cached report
func (h *handler) PurgeCache(c *gin.Context) {
	purged := h.service.PurgeCache()

	logger.InfoCtx(c.Request.Context(), "Cache purged via admin endpoint", zap.Int("purged", purged))

	c.JSON(http.StatusOK, gin.H{
		"purged": purged,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": SERVICE_NAME,
	})
}

// parseFresh reads the fresh query parameter; anything unparsable counts as false
func parseFresh(c *gin.Context) bool {
	fresh, err := strconv.ParseBool(c.Query(FRESH_QUERY_PARAM))
	return err == nil && fresh
}
