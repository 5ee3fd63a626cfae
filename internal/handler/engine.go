package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type thresholdRequest struct {
	Threshold int `json:"threshold" binding:"required"`
}

// GetThreshold godoc
// @Summary      Active fuzzy match threshold
// @Tags         engine
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/engine/threshold [get]
func (h *Handler) GetThreshold(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-threshold")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{"threshold": h.matcher.Threshold()})
}

// AdjustThreshold godoc
// @Summary      Adjust the fuzzy match threshold
// @Description  Clamped to [30,90]. Lower casts a wider net, higher is more precise.
// @Tags         engine
// @Accept       json
// @Produce      json
// @Param        threshold  body      thresholdRequest  true  "New threshold"
// @Success      200        {object}  map[string]int
// @Failure      400        {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/engine/threshold [put]
func (h *Handler) AdjustThreshold(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.adjust-threshold")
	defer span.End()

	var req thresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": h.matcher.AdjustThreshold(req.Threshold)})
}

type testMatchRequest struct {
	Name string `json:"name" binding:"required"`
}

// TestMatch godoc
// @Summary      Diagnostic match scoring
// @Description  Scores a name against every tracked keyword without the acceptance gate. Tuning aid only.
// @Tags         engine
// @Accept       json
// @Produce      json
// @Param        name  body      testMatchRequest  true  "Name to score"
// @Success      200   {array}   match.Candidate
// @Failure      400   {object}  map[string]string
// @Router       /api/engine/test-match [post]
func (h *Handler) TestMatch(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.test-match")
	defer span.End()

	var req testMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idx, err := h.trends.KeywordIndex()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	candidates := h.matcher.TestMatch(req.Name, idx)
	c.JSON(http.StatusOK, gin.H{
		"threshold":  h.matcher.Threshold(),
		"candidates": candidates,
	})
}

// LatestFeed godoc
// @Summary      Latest feed snapshot
// @Description  Returns the most recently observed graduated coins, served from cache when fresh.
// @Tags         engine
// @Produce      json
// @Success      200  {array}   domain.FeedEntity
// @Failure      502  {object}  map[string]string
// @Router       /api/feed/latest [get]
func (h *Handler) LatestFeed(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.latest-feed")
	defer span.End()

	entities, err := h.feed.Latest(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entities)
}
