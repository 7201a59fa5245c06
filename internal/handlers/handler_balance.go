package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
)

// balanceHandler handles HTTP requests related to per-period account balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// registerBalanceRoutes registers routes related to balances. Balance rows
// hang off a period: /balances/2025/3 lists the period, an account query
// narrows to one row, and POST /calculate re-runs the roll-up.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := &balanceHandler{balanceService: balanceService}

	balances := rg.Group("/balances")
	{
		balances.GET("/:year/:month", h.listBalances)
		balances.GET("/:year/:month/accounts/:accountID", h.getBalance)
		balances.POST("/:year/:month/calculate", h.calculate)
	}
}

// periodParams parses the year/month path segments, answering 400 itself on failure.
func periodParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month parameter"})
		return 0, 0, false
	}
	return year, month, true
}

func (h *balanceHandler) listBalances(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}

	resp, err := h.balanceService.ListBalancesForPeriod(c.Request.Context(), year, month)
	if err != nil {
		respondServiceError(c, err, "Failed to list balances")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *balanceHandler) getBalance(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.GetBalance(c.Request.Context(), c.Param("accountID"), year, month)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

func (h *balanceHandler) calculate(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.balanceService.CalculateForPeriod(c.Request.Context(), year, month, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to calculate balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceCalculationResponse(*summary))
}
