package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chartHandler handles HTTP requests on the chart of accounts and reference data.
type chartHandler struct {
	chartService portssvc.ChartSvcFacade
}

func newChartHandler(cs portssvc.ChartSvcFacade) *chartHandler {
	return &chartHandler{chartService: cs}
}

// registerChartRoutes registers accounts, third parties, analytics and journals.
func registerChartRoutes(rg *gin.RouterGroup, cs portssvc.ChartSvcFacade) {
	h := newChartHandler(cs)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/by-code/:code", h.getAccountByCode)
		accounts.DELETE("/:id", h.deleteAccount)
	}

	thirdParties := rg.Group("/third-parties")
	{
		thirdParties.POST("", h.createThirdParty)
		thirdParties.GET("", h.listThirdParties)
		thirdParties.GET("/:id", h.getThirdParty)
		thirdParties.DELETE("/:id", h.deleteThirdParty)
	}

	rg.POST("/analytics", h.createAnalytic)
	rg.GET("/analytics", h.listAnalytics)
	rg.POST("/journals", h.createJournal)
	rg.GET("/journals", h.listJournals)
}

// createAccount godoc
// @Summary Create an account
// @Description Adds an account to the chart. The code is 3 to 10 digits; its first digit is the account class.
// @Tags chart
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} domain.Account
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Security BearerAuth
// @Router /accounts [post]
func (h *chartHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req, "CreateAccount") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code))
	account, err := h.chartService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.Int64("account_id", account.AccountID))
	c.JSON(http.StatusCreated, account)
}

// listAccounts godoc
// @Summary List accounts
// @Tags chart
// @Produce  json
// @Success 200 {array} domain.Account
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /accounts [get]
func (h *chartHandler) listAccounts(c *gin.Context) {
	accounts, err := h.chartService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags chart
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 200 {object} domain.Account
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *chartHandler) getAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	account, err := h.chartService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// getAccountByCode godoc
// @Summary Get an account by chart code
// @Tags chart
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} domain.Account
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/by-code/{code} [get]
func (h *chartHandler) getAccountByCode(c *gin.Context) {
	account, err := h.chartService.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// deleteAccount godoc
// @Summary Delete an unreferenced account
// @Tags chart
// @Param   id path int true "Account ID"
// @Success 204
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account still referenced"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *chartHandler) deleteAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.chartService.DeleteAccount(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// createThirdParty godoc
// @Summary Create a third party
// @Tags chart
// @Accept  json
// @Produce  json
// @Param   thirdParty body dto.CreateThirdPartyRequest true "Third party details"
// @Success 201 {object} domain.ThirdParty
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Third party code already exists"
// @Security BearerAuth
// @Router /third-parties [post]
func (h *chartHandler) createThirdParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateThirdPartyRequest
	if !bindJSON(c, &req, "CreateThirdParty") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	tp, err := h.chartService.CreateThirdParty(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create third party")
		return
	}
	logger.Info("Third party created successfully", slog.Int64("third_party_id", tp.ThirdPartyID))
	c.JSON(http.StatusCreated, tp)
}

// listThirdParties godoc
// @Summary List third parties
// @Tags chart
// @Produce  json
// @Success 200 {array} domain.ThirdParty
// @Security BearerAuth
// @Router /third-parties [get]
func (h *chartHandler) listThirdParties(c *gin.Context) {
	tps, err := h.chartService.ListThirdParties(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list third parties")
		return
	}
	c.JSON(http.StatusOK, tps)
}

// getThirdParty godoc
// @Summary Get a third party by ID
// @Tags chart
// @Produce  json
// @Param   id path int true "Third party ID"
// @Success 200 {object} domain.ThirdParty
// @Failure 404 {object} map[string]string "Third party not found"
// @Security BearerAuth
// @Router /third-parties/{id} [get]
func (h *chartHandler) getThirdParty(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tp, err := h.chartService.GetThirdPartyByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve third party")
		return
	}
	c.JSON(http.StatusOK, tp)
}

// deleteThirdParty godoc
// @Summary Delete an unreferenced third party
// @Tags chart
// @Param   id path int true "Third party ID"
// @Success 204
// @Failure 409 {object} map[string]string "Third party still referenced"
// @Security BearerAuth
// @Router /third-parties/{id} [delete]
func (h *chartHandler) deleteThirdParty(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.chartService.DeleteThirdParty(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete third party")
		return
	}
	c.Status(http.StatusNoContent)
}

// createAnalytic godoc
// @Summary Create an analytic dimension
// @Tags chart
// @Accept  json
// @Produce  json
// @Param   analytic body dto.CreateAnalyticRequest true "Analytic details"
// @Success 201 {object} domain.Analytic
// @Security BearerAuth
// @Router /analytics [post]
func (h *chartHandler) createAnalytic(c *gin.Context) {
	var req dto.CreateAnalyticRequest
	if !bindJSON(c, &req, "CreateAnalytic") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	analytic, err := h.chartService.CreateAnalytic(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create analytic")
		return
	}
	c.JSON(http.StatusCreated, analytic)
}

// listAnalytics godoc
// @Summary List analytic dimensions
// @Tags chart
// @Produce  json
// @Success 200 {array} domain.Analytic
// @Security BearerAuth
// @Router /analytics [get]
func (h *chartHandler) listAnalytics(c *gin.Context) {
	analytics, err := h.chartService.ListAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// createJournal godoc
// @Summary Create a journal
// @Tags chart
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} domain.Journal
// @Security BearerAuth
// @Router /journals [post]
func (h *chartHandler) createJournal(c *gin.Context) {
	var req dto.CreateJournalRequest
	if !bindJSON(c, &req, "CreateJournal") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	journal, err := h.chartService.CreateJournal(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create journal")
		return
	}
	c.JSON(http.StatusCreated, journal)
}

// listJournals godoc
// @Summary List journals
// @Tags chart
// @Produce  json
// @Success 200 {array} domain.Journal
// @Security BearerAuth
// @Router /journals [get]
func (h *chartHandler) listJournals(c *gin.Context) {
	journals, err := h.chartService.ListJournals(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, journals)
}
