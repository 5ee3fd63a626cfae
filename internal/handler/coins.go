package handler

import (
	"net/http"
	"strconv"

	"trendwatch/internal/store"

	"github.com/gin-gonic/gin"
)

type addCoinRequest struct {
	Name        string `json:"name" binding:"required"`
	Narrative   string `json:"narrative" binding:"required"`
	PeakMcap    string `json:"peak_mcap" binding:"required"`
	TimeToPeak  string `json:"time_to_peak" binding:"required"`
	Notes       string `json:"notes"`
	CoinAddress string `json:"coin_address"`
	EntryMcap   string `json:"entry_mcap"`
	ExitMcap    string `json:"exit_mcap"`
}

// AddCoin godoc
// @Summary      Record a coin performance outcome
// @Description  Stores the record and recomputes the narrative aggregates. Unparseable magnitudes degrade to 0.
// @Tags         coins
// @Accept       json
// @Produce      json
// @Param        coin  body      addCoinRequest  true  "Coin outcome"
// @Success      201   {object}  domain.CoinRecord
// @Failure      400   {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/coins [post]
func (h *Handler) AddCoin(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.add-coin")
	defer span.End()

	var req addCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coin, err := h.ledger.AddCoin(store.CoinInput{
		Name:        req.Name,
		Narrative:   req.Narrative,
		PeakMcap:    req.PeakMcap,
		TimeToPeak:  req.TimeToPeak,
		Notes:       req.Notes,
		CoinAddress: req.CoinAddress,
		EntryMcap:   req.EntryMcap,
		ExitMcap:    req.ExitMcap,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, coin)
}

// ListCoins godoc
// @Summary      List coin performance records
// @Description  Newest first, optionally filtered by narrative.
// @Tags         coins
// @Produce      json
// @Param        narrative  query     string  false  "Narrative filter"
// @Success      200        {array}   domain.CoinRecord
// @Router       /api/coins [get]
func (h *Handler) ListCoins(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.list-coins")
	defer span.End()

	coins, err := h.ledger.GetAllCoins(c.Query("narrative"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, coins)
}

// SearchCoins godoc
// @Summary      Search coin records
// @Description  Case-insensitive substring search over name and notes.
// @Tags         coins
// @Produce      json
// @Param        q    query     string  true  "Search query"
// @Success      200  {array}   domain.CoinRecord
// @Router       /api/coins/search [get]
func (h *Handler) SearchCoins(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.search-coins")
	defer span.End()

	results, err := h.ledger.SearchCoins(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// DeleteCoin godoc
// @Summary      Delete a coin record
// @Description  Removes the record and recomputes the narrative aggregates.
// @Tags         coins
// @Produce      json
// @Param        id   path      int  true  "Coin record ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/coins/{id} [delete]
func (h *Handler) DeleteCoin(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.delete-coin")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coin id"})
		return
	}
	ok, err := h.ledger.DeleteCoin(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "coin not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// NarrativeAnalysis godoc
// @Summary      Raw aggregate for one narrative
// @Tags         narratives
// @Produce      json
// @Param        narrative  path      string  true  "Narrative"
// @Success      200        {object}  domain.NarrativeAnalysis
// @Failure      404        {object}  map[string]string
// @Router       /api/narratives/{narrative} [get]
func (h *Handler) NarrativeAnalysis(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.narrative-analysis")
	defer span.End()

	analysis, err := h.ledger.MetaAnalysis(c.Param("narrative"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for narrative"})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// AllNarrativeAnalyses godoc
// @Summary      Raw aggregates for all narratives
// @Tags         narratives
// @Produce      json
// @Success      200  {object}  map[string]domain.NarrativeAnalysis
// @Router       /api/narratives [get]
func (h *Handler) AllNarrativeAnalyses(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.all-narrative-analyses")
	defer span.End()

	all, err := h.ledger.AllMetaAnalyses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, all)
}

// NarrativeSummary godoc
// @Summary      Human-readable summary for one narrative
// @Tags         narratives
// @Produce      json
// @Param        narrative  path      string  true  "Narrative"
// @Success      200        {object}  map[string]string
// @Router       /api/narratives/{narrative}/summary [get]
func (h *Handler) NarrativeSummary(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.narrative-summary")
	defer span.End()

	summary, err := h.ledger.NarrativeSummary(c.Param("narrative"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// OverallSummary godoc
// @Summary      Summary across all narratives
// @Tags         narratives
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/summary [get]
func (h *Handler) OverallSummary(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.overall-summary")
	defer span.End()

	summary, err := h.ledger.OverallSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
