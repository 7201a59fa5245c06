package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
	"github.com/openbooks/ledger_app/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/void", h.voidEntry)
	}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create journal entry", slog.Int("lines", len(req.Lines)))

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *journalHandler) updateEntry(c *gin.Context) {
	var req dto.UpdateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) deleteEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondServiceError(c, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *journalHandler) postEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) voidEntry(c *gin.Context) {
	var req dto.VoidJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.VoidEntry(c.Request.Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to void journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
