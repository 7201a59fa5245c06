package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
	"github.com/openbooks/ledger_app/internal/middleware"
)

// fiscalPeriodHandler handles HTTP requests related to fiscal periods.
type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

// registerFiscalPeriodRoutes registers routes related to fiscal periods.
func registerFiscalPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := &fiscalPeriodHandler{periodService: periodService}

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.createPeriod)
		periods.POST("/ensure", h.ensurePeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/open", h.listOpenPeriods)
		periods.GET("/:id", h.getPeriod)
		periods.POST("/:id/close", h.closePeriod)
		periods.POST("/:id/reopen", h.reopenPeriod)
		periods.POST("/:id/lock", h.lockPeriod)
	}
}

func (h *fiscalPeriodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalPeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create fiscal period", slog.Int("year", req.Year), slog.Int("month", req.Month))

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create fiscal period")
		return
	}

	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

func (h *fiscalPeriodHandler) ensurePeriod(c *gin.Context) {
	var req dto.CreateFiscalPeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.periodService.EnsurePeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to ensure fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

func (h *fiscalPeriodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriodByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	var params dto.ListFiscalPeriodsParams
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
			return
		}
		params.Year = &year
	}

	resp, err := h.periodService.ListPeriods(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *fiscalPeriodHandler) listOpenPeriods(c *gin.Context) {
	resp, err := h.periodService.ListOpenPeriods(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list open fiscal periods")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *fiscalPeriodHandler) closePeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to close fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

func (h *fiscalPeriodHandler) reopenPeriod(c *gin.Context) {
	var req dto.ReopenFiscalPeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to reopen fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

func (h *fiscalPeriodHandler) lockPeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.periodService.LockPeriod(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to lock fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}
