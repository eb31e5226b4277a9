package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler serves account balances and account ledgers.
type ledgerHandler struct {
	balanceService portssvc.BalanceSvc
}

// AccountBalanceResponse is the balance of one account.
type AccountBalanceResponse struct {
	AccountID int64           `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

func registerLedgerRoutes(rg *gin.RouterGroup, bs portssvc.BalanceSvc) {
	h := &ledgerHandler{balanceService: bs}
	rg.GET("/accounts/:id/balance", h.accountBalance)
	rg.GET("/accounts/:id/transactions", h.listAccountTransactions)
}

// accountBalance godoc
// @Summary Balance of an account
// @Description Revenue minus expense. asOf keeps only transactions reconciled on or before that date.
// @Tags ledger
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   asOf query string false "Reconciliation ceiling (YYYY-MM-DD)"
// @Param   fiscalYearID query int false "Restrict to a fiscal year"
// @Success 200 {object} AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *ledgerHandler) accountBalance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	yearID, ok := optionalIDQuery(c, "fiscalYearID")
	if !ok {
		return
	}
	var asOf *time.Time
	if raw := c.Query("asOf"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		asOf = d.TimePtr()
	}

	balance, err := h.balanceService.AccountBalance(c.Request.Context(), id, asOf, yearID)
	if err != nil {
		respondError(c, err, "Failed to compute account balance")
		return
	}
	c.JSON(http.StatusOK, AccountBalanceResponse{AccountID: id, Balance: balance})
}

// listAccountTransactions godoc
// @Summary Account ledger with running balance
// @Tags ledger
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   fiscalYearID query int false "Restrict to a fiscal year"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListAccountTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /accounts/{id}/transactions [get]
func (h *ledgerHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params dto.ListAccountTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccountTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	page, err := h.balanceService.ListAccountTransactions(c.Request.Context(), id, params)
	if err != nil {
		respondError(c, err, "Failed to list account transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}
