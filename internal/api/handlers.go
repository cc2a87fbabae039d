package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/records"
	"ThreatMonitor/internal/usecase"
)

// Service is the dashboard behaviour the handlers expose. *usecase.Dashboard implements it.
type Service interface {
	Page(ctx context.Context, slug string, c records.Criteria) (usecase.PageView, error)
	Threats(ctx context.Context, c records.Criteria) (usecase.ThreatFeed, error)
	Overview(ctx context.Context) (usecase.Overview, error)
	Alerts(ctx context.Context) ([]domain.LiveAlert, error)
	Sources(ctx context.Context) ([]domain.DataSource, error)
	ScraperStatus(ctx context.Context) (domain.ScraperStatus, error)
	Analyze(ctx context.Context, text string) (domain.AnalysisResult, error)
	RunScrapers(ctx context.Context) (domain.ActionResult, error)
	AddTestAlert(ctx context.Context) (domain.ActionResult, error)
}

var _ Service = (*usecase.Dashboard)(nil)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeRequest struct {
	Text string `json:"text" form:"text"`
}

// Handler maps HTTP requests onto the Service.
type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts every route on router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/pages/:slug", h.Page)
	v1.GET("/threats", h.Threats)
	v1.GET("/overview", h.Overview)
	v1.GET("/alerts", h.Alerts)
	v1.POST("/alerts/test", h.AddTestAlert)
	v1.POST("/analyze", h.Analyze)
	v1.POST("/scrapers/run", h.RunScrapers)
	v1.GET("/scrapers/status", h.ScraperStatus)
	v1.GET("/sources", h.Sources)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Page serves GET /api/v1/pages/:slug?date=&sentiment=&q=.
func (h *Handler) Page(c *gin.Context) {
	date, err := records.ParseDateFilter(c.Query("date"))
	if err != nil {
		h.fail(c, err, "")
		return
	}
	label, err := records.ParseSentimentFilter(c.Query("sentiment"))
	if err != nil {
		h.fail(c, err, "")
		return
	}

	view, err := h.svc.Page(c.Request.Context(), c.Param("slug"), records.Criteria{
		Date:  date,
		Label: label,
		Query: c.Query("q"),
	})
	if err != nil {
		h.fail(c, err, "Failed to load articles")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Threats serves GET /api/v1/threats?date=&level=&q=.
func (h *Handler) Threats(c *gin.Context) {
	date, err := records.ParseDateFilter(c.Query("date"))
	if err != nil {
		h.fail(c, err, "")
		return
	}
	label, err := records.ParseThreatFilter(c.Query("level"))
	if err != nil {
		h.fail(c, err, "")
		return
	}

	feed, err := h.svc.Threats(c.Request.Context(), records.Criteria{
		Date:  date,
		Label: label,
		Query: c.Query("q"),
	})
	if err != nil {
		h.fail(c, err, "Failed to load threats")
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) Alerts(c *gin.Context) {
	alerts, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) Sources(c *gin.Context) {
	sources, err := h.svc.Sources(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load sources")
		return
	}
	c.JSON(http.StatusOK, sources)
}

func (h *Handler) ScraperStatus(c *gin.Context) {
	status, err := h.svc.ScraperStatus(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get scraper status")
		return
	}
	c.JSON(http.StatusOK, status)
}

// Analyze accepts {"text": "..."} or a form with a text field.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "Request body must contain a text field"})
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, err, "Analysis failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) RunScrapers(c *gin.Context) {
	result, err := h.svc.RunScrapers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to start scrapers")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) AddTestAlert(c *gin.Context) {
	result, err := h.svc.AddTestAlert(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to add test alert")
		return
	}
	c.JSON(http.StatusOK, result)
}

// fail maps err onto a status code. upstreamMsg is the short message shown for remote failures.
func (h *Handler) fail(c *gin.Context, err error, upstreamMsg string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, records.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, errorBody{Code: "INVALID_FILTER", Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyText):
		c.JSON(http.StatusBadRequest, errorBody{Code: "EMPTY_TEXT", Message: "Please enter text to analyze"})
	case errors.Is(err, domain.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, errorBody{Code: "NOT_CONFIGURED", Message: err.Error()})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		if upstreamMsg == "" {
			upstreamMsg = "Upstream request failed"
		}
		c.JSON(http.StatusBadGateway, errorBody{Code: "UPSTREAM_ERROR", Message: upstreamMsg})
	}
}
