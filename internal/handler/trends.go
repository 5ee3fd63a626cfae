package handler

import (
	"errors"
	"net/http"
	"strconv"

	"trendwatch/internal/store"

	"github.com/gin-gonic/gin"
)

type addTrendRequest struct {
	Keyword     string   `json:"keyword" binding:"required"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Aliases     []string `json:"aliases"`
	Priority    int      `json:"priority"`
}

// AddTrend godoc
// @Summary      Track a new trend keyword
// @Description  Adds a trend to the matching corpus. Duplicate keywords (case-insensitive) return 409 with the existing record.
// @Tags         trends
// @Accept       json
// @Produce      json
// @Param        trend  body      addTrendRequest  true  "Trend to track"
// @Success      201    {object}  domain.Trend
// @Failure      400    {object}  map[string]string
// @Failure      409    {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/trends [post]
func (h *Handler) AddTrend(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.add-trend")
	defer span.End()

	var req addTrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trend, err := h.trends.AddTrend(req.Keyword, req.Description, req.Source, req.Aliases, req.Priority)
	if errors.Is(err, store.ErrDuplicateTrend) {
		c.JSON(http.StatusConflict, gin.H{"error": "trend already exists", "existing": trend})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, trend)
}

// ListTrends godoc
// @Summary      List tracked trends
// @Description  Returns trends sorted by descending priority. active_only defaults to true.
// @Tags         trends
// @Produce      json
// @Param        active_only  query     bool  false  "Only active trends"
// @Success      200          {array}   domain.Trend
// @Router       /api/trends [get]
func (h *Handler) ListTrends(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.list-trends")
	defer span.End()

	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	trends, err := h.trends.GetAllTrends(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trends)
}

// SearchTrends godoc
// @Summary      Search trends
// @Description  Case-insensitive substring search over keyword, description and aliases, including inactive trends.
// @Tags         trends
// @Produce      json
// @Param        q    query     string  true  "Search query"
// @Success      200  {array}   domain.Trend
// @Router       /api/trends/search [get]
func (h *Handler) SearchTrends(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.search-trends")
	defer span.End()

	results, err := h.trends.SearchTrends(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// UpdateTrend godoc
// @Summary      Update a trend
// @Description  Merges the supplied fields into the trend; unknown fields are ignored.
// @Tags         trends
// @Accept       json
// @Produce      json
// @Param        id      path      int             true  "Trend ID"
// @Param        fields  body      map[string]any  true  "Fields to merge"
// @Success      200     {object}  domain.Trend
// @Failure      404     {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/trends/{id} [patch]
func (h *Handler) UpdateTrend(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.update-trend")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trend id"})
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trend, err := h.trends.UpdateTrend(id, fields)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if trend == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trend not found"})
		return
	}
	c.JSON(http.StatusOK, trend)
}

// DeactivateTrend godoc
// @Summary      Deactivate a trend
// @Description  Soft-removes a trend from the matching corpus; it stays searchable.
// @Tags         trends
// @Produce      json
// @Param        id   path      int  true  "Trend ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/trends/{id}/deactivate [post]
func (h *Handler) DeactivateTrend(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.deactivate-trend")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trend id"})
		return
	}
	ok, err := h.trends.DeactivateTrend(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "trend not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": true})
}

// DeleteTrend godoc
// @Summary      Delete a trend permanently
// @Tags         trends
// @Produce      json
// @Param        id   path      int  true  "Trend ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/trends/{id} [delete]
func (h *Handler) DeleteTrend(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.delete-trend")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trend id"})
		return
	}
	ok, err := h.trends.DeleteTrend(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "trend not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// RecentMatches godoc
// @Summary      Recent coin matches
// @Description  Returns match-log entries, newest first.
// @Tags         trends
// @Produce      json
// @Param        limit  query     int  false  "Max entries (default 20)"
// @Success      200    {array}   domain.MatchRecord
// @Router       /api/matches [get]
func (h *Handler) RecentMatches(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.recent-matches")
	defer span.End()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	matches, err := h.trends.RecentMatches(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}
