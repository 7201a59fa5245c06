package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
	"github.com/openbooks/ledger_app/internal/middleware"
)

// bankAccountHandler handles HTTP requests related to bank accounts.
type bankAccountHandler struct {
	bankAccountService portssvc.BankAccountSvcFacade
}

// registerBankAccountRoutes registers routes related to bank accounts.
func registerBankAccountRoutes(rg *gin.RouterGroup, bankAccountService portssvc.BankAccountSvcFacade) {
	h := &bankAccountHandler{bankAccountService: bankAccountService}

	accounts := rg.Group("/bank-accounts")
	{
		accounts.POST("", h.createBankAccount)
		accounts.GET("", h.listBankAccounts)
		accounts.GET("/:id", h.getBankAccount)
		accounts.PUT("/:id", h.updateBankAccount)
		accounts.POST("/:id/deactivate", h.deactivateBankAccount)
		accounts.POST("/:id/reactivate", h.reactivateBankAccount)
		accounts.POST("/:id/close", h.closeBankAccount)
	}
}

func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create bank account", slog.String("bank_name", req.BankName))

	account, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create bank account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	account, err := h.bankAccountService.GetBankAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) listBankAccounts(c *gin.Context) {
	var params dto.ListBankAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.bankAccountService.ListBankAccounts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *bankAccountHandler) updateBankAccount(c *gin.Context) {
	var req dto.UpdateBankAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.bankAccountService.UpdateBankAccount(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to update bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) lifecycle(c *gin.Context, op func(c *gin.Context, id, userID string) error) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := op(c, c.Param("id"), userID); err != nil {
		respondServiceError(c, err, "Failed to change bank account status")
	}
}

func (h *bankAccountHandler) deactivateBankAccount(c *gin.Context) {
	h.lifecycle(c, func(c *gin.Context, id, userID string) error {
		account, err := h.bankAccountService.DeactivateBankAccount(c.Request.Context(), id, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
		return nil
	})
}

func (h *bankAccountHandler) reactivateBankAccount(c *gin.Context) {
	h.lifecycle(c, func(c *gin.Context, id, userID string) error {
		account, err := h.bankAccountService.ReactivateBankAccount(c.Request.Context(), id, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
		return nil
	})
}

func (h *bankAccountHandler) closeBankAccount(c *gin.Context) {
	h.lifecycle(c, func(c *gin.Context, id, userID string) error {
		account, err := h.bankAccountService.CloseBankAccount(c.Request.Context(), id, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
		return nil
	})
}
