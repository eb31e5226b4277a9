package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler matches bank statements against bank transactions.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func registerReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: rs}

	statements := rg.Group("/bank-statements")
	{
		statements.POST("", h.createBankStatement)
		statements.GET("", h.listBankStatements)
		statements.GET("/:id", h.getBankStatement)
		statements.GET("/:id/reconciliation", h.reconcile)
		statements.GET("/:id/transactions", h.statementTransactions)
	}

	rg.PUT("/reconciliation", h.setReconciliation)
	rg.GET("/reconciliation/window", h.nextUnreconciledWindow)
}

// createBankStatement godoc
// @Summary Declare a bank statement
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   statement body dto.CreateBankStatementRequest true "Statement"
// @Success 201 {object} domain.BankStatement
// @Failure 409 {object} map[string]string "A statement already exists on that date"
// @Failure 422 {object} map[string]string "Fiscal year not opened"
// @Security BearerAuth
// @Router /bank-statements [post]
func (h *reconciliationHandler) createBankStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankStatementRequest
	if !bindJSON(c, &req, "CreateBankStatement") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	stmt, err := h.reconciliationService.CreateBankStatement(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create bank statement")
		return
	}
	logger.Info("Bank statement created", slog.Int64("bank_statement_id", stmt.BankStatementID))
	c.JSON(http.StatusCreated, stmt)
}

// listBankStatements godoc
// @Summary List bank statements
// @Tags reconciliation
// @Produce  json
// @Param   fiscalYearID query int false "Restrict to a fiscal year"
// @Success 200 {array} domain.BankStatement
// @Security BearerAuth
// @Router /bank-statements [get]
func (h *reconciliationHandler) listBankStatements(c *gin.Context) {
	yearID, ok := optionalIDQuery(c, "fiscalYearID")
	if !ok {
		return
	}
	stmts, err := h.reconciliationService.ListBankStatements(c.Request.Context(), yearID)
	if err != nil {
		respondError(c, err, "Failed to list bank statements")
		return
	}
	c.JSON(http.StatusOK, stmts)
}

// getBankStatement godoc
// @Summary Get a bank statement
// @Tags reconciliation
// @Produce  json
// @Param   id path int true "Statement ID"
// @Success 200 {object} domain.BankStatement
// @Failure 404 {object} map[string]string "Statement not found"
// @Security BearerAuth
// @Router /bank-statements/{id} [get]
func (h *reconciliationHandler) getBankStatement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	stmt, err := h.reconciliationService.GetBankStatement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve bank statement")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// reconcile godoc
// @Summary Compare a statement with the reconciled bank transactions
// @Tags reconciliation
// @Produce  json
// @Param   id path int true "Statement ID"
// @Success 200 {object} domain.StatementReconciliation
// @Security BearerAuth
// @Router /bank-statements/{id}/reconciliation [get]
func (h *reconciliationHandler) reconcile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rec, err := h.reconciliationService.Reconcile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to reconcile bank statement")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// statementTransactions godoc
// @Summary Transactions belonging to a statement period
// @Tags reconciliation
// @Produce  json
// @Param   id path int true "Statement ID"
// @Success 200 {array} dto.TransactionResponse
// @Security BearerAuth
// @Router /bank-statements/{id}/transactions [get]
func (h *reconciliationHandler) statementTransactions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	txns, err := h.reconciliationService.StatementTransactions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list statement transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// setReconciliation godoc
// @Summary Tag or untag bank transactions
// @Description A null date clears the reconciliation date.
// @Tags reconciliation
// @Accept  json
// @Param   body body dto.SetReconciliationRequest true "Transactions and date"
// @Success 204
// @Failure 400 {object} map[string]string "Transaction not on a bank account"
// @Security BearerAuth
// @Router /reconciliation [put]
func (h *reconciliationHandler) setReconciliation(c *gin.Context) {
	var req dto.SetReconciliationRequest
	if !bindJSON(c, &req, "SetReconciliation") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.reconciliationService.SetReconciliation(c.Request.Context(), req.TransactionIDs, req.Date.TimePtr(), userID); err != nil {
		respondError(c, err, "Failed to set reconciliation")
		return
	}
	c.Status(http.StatusNoContent)
}

// nextUnreconciledWindow godoc
// @Summary Bank transactions still to reconcile
// @Description Unreconciled lines first, then lines reconciled after the latest statement.
// @Tags reconciliation
// @Produce  json
// @Success 200 {array} dto.TransactionResponse
// @Security BearerAuth
// @Router /reconciliation/window [get]
func (h *reconciliationHandler) nextUnreconciledWindow(c *gin.Context) {
	txns, err := h.reconciliationService.NextUnreconciledWindow(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list unreconciled transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}
