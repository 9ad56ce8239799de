package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JustJay7/collections-tracker/internal/ack"
	"github.com/JustJay7/collections-tracker/internal/analysis"
	"github.com/JustJay7/collections-tracker/internal/ledger"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	svc    *analysis.Service
	logger *logger.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc *analysis.Service, logger *logger.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: logger,
	}
}

// RunAnalysis runs one analysis pass and returns its run record
func (h *Handlers) RunAnalysis(c *gin.Context) {
	run, err := h.svc.Run(c.Request.Context(), "api")
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    run,
	})
}

// ListRuns returns recent analysis passes
func (h *Handlers) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "limit must be between 1 and 500",
		})
		return
	}

	runs, err := h.svc.Runs(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    runs,
	})
}

// Report returns the staleness report of the last pass
func (h *Handlers) Report(c *gin.Context) {
	includeAck, err := strconv.ParseBool(c.DefaultQuery("include_acknowledged", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "include_acknowledged must be a boolean",
		})
		return
	}

	report, err := h.svc.Report(c.Request.Context(), includeAck)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
		"counts":  report.Counts(),
	})
}

// Summary returns ledger-wide totals
func (h *Handlers) Summary(c *gin.Context) {
	overview, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    overview,
	})
}

// Firms returns per law firm statistics
func (h *Handlers) Firms(c *gin.Context) {
	firms, err := h.svc.Firms(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    firms,
	})
}

// GetCase returns one case's history and classification
func (h *Handlers) GetCase(c *gin.Context) {
	view, err := h.svc.Case(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// AcknowledgeCase hides a case from the report
func (h *Handlers) AcknowledgeCase(c *gin.Context) {
	var req struct {
		Reason         string `json:"reason"`
		AcknowledgedBy string `json:"acknowledged_by"`
		SnoozeDays     int    `json:"snooze_days" binding:"min=0,max=3650"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	snooze := time.Duration(req.SnoozeDays) * 24 * time.Hour
	a, err := h.svc.Acknowledge(c.Request.Context(), c.Param("number"), req.Reason, req.AcknowledgedBy, snooze)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    a,
	})
}

// UnacknowledgeCase puts a case back in the report
func (h *Handlers) UnacknowledgeCase(c *gin.Context) {
	if err := h.svc.Unacknowledge(c.Request.Context(), c.Param("number")); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "acknowledgment removed",
	})
}

// ListAcknowledgments returns the acknowledgments in force
func (h *Handlers) ListAcknowledgments(c *gin.Context) {
	acks, err := h.svc.Acknowledgments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    acks,
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	dbHealthy := h.svc.Healthy(c.Request.Context())

	status := "healthy"
	code := http.StatusOK
	if !dbHealthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbHealthy,
		"cache":    h.svc.ReportCacheStats(),
		"time":     time.Now().Unix(),
	})
}

// CacheStats returns report cache and email cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	email, err := h.svc.EmailCacheStats()
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.svc.ReportCacheStats(),
		"email":   email,
	})
}

// fail maps service errors to HTTP status codes
func (h *Handlers) fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, analysis.ErrNoAnalysis),
		errors.Is(err, analysis.ErrCaseNotFound),
		errors.Is(err, ack.ErrNotAcknowledged):
		code = http.StatusNotFound
	case errors.Is(err, analysis.ErrAnalysisInProgress),
		errors.Is(err, ledger.ErrIncompatibleVersion):
		code = http.StatusConflict
	case errors.Is(err, ledger.ErrEmptyMessageCache):
		code = http.StatusServiceUnavailable
	}

	if code == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(code, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
