package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

// entryHandler handles entries and their transaction lines.
type entryHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newEntryHandler(ps portssvc.PostingSvcFacade) *entryHandler {
	return &entryHandler{postingService: ps}
}

func registerEntryRoutes(rg *gin.RouterGroup, ps portssvc.PostingSvcFacade) {
	h := newEntryHandler(ps)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.POST("/posted", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.GET("/:id/balanced", h.entryIsBalanced)
		entries.PATCH("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
		entries.POST("/:id/transactions", h.postTransaction)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.PATCH("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

// createEntry godoc
// @Summary Create an entry header
// @Description Creates an entry without lines. Lines are added one by one with POST /entries/{id}/transactions.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry header"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} map[string]string "Fiscal year not opened"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if !bindJSON(c, &req, "CreateEntry") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	detail, err := h.postingService.CreateEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create entry")
		return
	}
	logger.Info("Entry created", slog.Int64("entry_id", detail.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(detail))
}

// postEntry godoc
// @Summary Post a complete entry
// @Description Creates the entry and all its lines atomically. The lines must balance and match the entry kind.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostEntryRequest true "Entry with lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Validation error or unbalanced entry"
// @Failure 422 {object} map[string]string "Fiscal year not opened"
// @Security BearerAuth
// @Router /entries/posted [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostEntryRequest
	if !bindJSON(c, &req, "PostEntry") {
		return
	}
	for _, line := range req.Lines {
		if err := accounting.ValidateSingleSided(line.Expense, line.Revenue); err != nil {
			respondError(c, err, "Invalid entry line")
			return
		}
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	logger.Info("Received request to post entry", slog.String("kind", string(req.Kind)), slog.Int("lines", len(req.Lines)))
	detail, err := h.postingService.PostEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to post entry")
		return
	}
	logger.Info("Entry posted", slog.Int64("entry_id", detail.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(detail))
}

// listEntries godoc
// @Summary List the entries of a fiscal year
// @Tags entries
// @Produce  json
// @Param   fiscalYearID query int true "Fiscal year ID"
// @Param   kind query string false "Entry kind"
// @Success 200 {array} domain.Entry
// @Security BearerAuth
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	entries, err := h.postingService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// getEntry godoc
// @Summary Get an entry with its lines and totals
// @Tags entries
// @Produce  json
// @Param   id path int true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{id} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.postingService.GetEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(detail))
}

// entryIsBalanced godoc
// @Summary Report whether an entry nets to zero
// @Tags entries
// @Produce  json
// @Param   id path int true "Entry ID"
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /entries/{id}/balanced [get]
func (h *entryHandler) entryIsBalanced(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	balanced, err := h.postingService.EntryIsBalanced(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to check entry balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balanced": balanced})
}

// updateEntry godoc
// @Summary Edit an entry header
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   id path int true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to change"
// @Success 200 {object} dto.EntryResponse
// @Failure 422 {object} map[string]string "Fiscal year not opened"
// @Security BearerAuth
// @Router /entries/{id} [patch]
func (h *entryHandler) updateEntry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEntryRequest
	if !bindJSON(c, &req, "UpdateEntry") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	detail, err := h.postingService.UpdateEntry(c.Request.Context(), id, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(detail))
}

// deleteEntry godoc
// @Summary Delete an entry
// @Description Deletes the entry with its lines. Letters touching any line are destroyed.
// @Tags entries
// @Param   id path int true "Entry ID"
// @Success 204
// @Failure 422 {object} map[string]string "Fiscal year not opened"
// @Security BearerAuth
// @Router /entries/{id} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.postingService.DeleteEntry(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete entry")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Entry deleted", slog.Int64("entry_id", id))
	c.Status(http.StatusNoContent)
}

// postTransaction godoc
// @Summary Add a line to an entry
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   id path int true "Entry ID"
// @Param   line body dto.TransactionLine true "Transaction line"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} map[string]string "Fiscal year not opened"
// @Security BearerAuth
// @Router /entries/{id}/transactions [post]
func (h *entryHandler) postTransaction(c *gin.Context) {
	entryID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var line dto.TransactionLine
	if !bindJSON(c, &line, "PostTransaction") {
		return
	}
	if err := accounting.ValidateSingleSided(line.Expense, line.Revenue); err != nil {
		respondError(c, err, "Invalid transaction line")
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	txn, err := h.postingService.PostTransaction(c.Request.Context(), entryID, line, userID)
	if err != nil {
		respondError(c, err, "Failed to post transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*txn))
}

// updateTransaction godoc
// @Summary Edit a transaction line
// @Description Changing the amounts, account or third party of a lettered line destroys its letter.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   line body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string "Fiscal year not opened"
// @Security BearerAuth
// @Router /transactions/{id} [patch]
func (h *entryHandler) updateTransaction(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if !bindJSON(c, &req, "UpdateTransaction") {
		return
	}
	if req.Expense != nil && req.Revenue != nil {
		if err := accounting.ValidateSingleSided(*req.Expense, *req.Revenue); err != nil {
			respondError(c, err, "Invalid transaction line")
			return
		}
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	txn, err := h.postingService.UpdateTransaction(c.Request.Context(), id, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(*txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction line
// @Tags transactions
// @Param   id path int true "Transaction ID"
// @Success 204
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *entryHandler) deleteTransaction(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.postingService.DeleteTransaction(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
