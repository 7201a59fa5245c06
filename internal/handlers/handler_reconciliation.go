package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
	"github.com/openbooks/ledger_app/internal/middleware"
)

// reconciliationHandler handles HTTP requests for the reconciliation workflow.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

// registerReconciliationRoutes registers routes related to bank reconciliation.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconService: reconService}

	recons := rg.Group("/reconciliations")
	{
		recons.POST("", h.createReconciliation)
		recons.GET("/:id", h.getReconciliation)
		recons.GET("/:id/statements", h.listStatements)
		recons.POST("/:id/statements", h.importStatement)
		recons.POST("/:id/matches", h.matchTransaction)
		recons.POST("/:id/auto-match", h.autoMatch)
		recons.POST("/:id/items", h.addItem)
		recons.DELETE("/:id/items/:itemID", h.removeItem)
		recons.POST("/:id/calculate", h.calculate)
		recons.POST("/:id/complete", h.complete)
		recons.POST("/:id/approve", h.approve)
	}

	// Sessions are also reachable from their bank account.
	rg.GET("/bank-accounts/:id/reconciliations", h.listByBankAccount)
}

func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReconciliationRequest
	if !bindJSON(c, &req) {
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create reconciliation",
		slog.String("bank_account_id", req.BankAccountID), slog.Int("year", req.Year), slog.Int("month", req.Month))

	recon, err := h.reconService.CreateReconciliation(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create reconciliation")
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(recon))
}

func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	recon, err := h.reconService.GetReconciliationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve reconciliation")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(recon))
}

func (h *reconciliationHandler) listByBankAccount(c *gin.Context) {
	resp, err := h.reconService.ListReconciliationsByBankAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to list reconciliations")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *reconciliationHandler) listStatements(c *gin.Context) {
	statements, err := h.reconService.ListStatements(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to list statements")
		return
	}
	responses := make([]dto.BankStatementResponse, len(statements))
	for i := range statements {
		responses[i] = dto.ToBankStatementResponse(&statements[i])
	}
	c.JSON(http.StatusOK, gin.H{"statements": responses})
}

func (h *reconciliationHandler) importStatement(c *gin.Context) {
	var req dto.ImportBankStatementRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	statement, err := h.reconService.ImportStatement(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to import statement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankStatementResponse(statement))
}

func (h *reconciliationHandler) matchTransaction(c *gin.Context) {
	var req dto.MatchTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.reconService.MatchTransaction(c.Request.Context(), c.Param("id"), req, userID); err != nil {
		respondServiceError(c, err, "Failed to match transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.reconService.AutoMatch(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to auto match")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *reconciliationHandler) addItem(c *gin.Context) {
	var req dto.AddReconcilingItemRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	item, err := h.reconService.AddReconcilingItem(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to add reconciling item")
		return
	}
	c.JSON(http.StatusCreated, dto.ToReconcilingItemResponse(item))
}

func (h *reconciliationHandler) removeItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.reconService.RemoveReconcilingItem(c.Request.Context(), c.Param("id"), c.Param("itemID"), userID); err != nil {
		respondServiceError(c, err, "Failed to remove reconciling item")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *reconciliationHandler) calculate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recon, err := h.reconService.Calculate(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to calculate reconciliation")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(recon))
}

func (h *reconciliationHandler) complete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recon, err := h.reconService.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to complete reconciliation")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(recon))
}

func (h *reconciliationHandler) approve(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recon, err := h.reconService.Approve(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to approve reconciliation")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(recon))
}
