package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalYearHandler handles fiscal years and their year-wide views.
type fiscalYearHandler struct {
	fiscalYearService portssvc.FiscalYearSvcFacade
	balanceService    portssvc.BalanceSvc
}

func newFiscalYearHandler(fys portssvc.FiscalYearSvcFacade, bs portssvc.BalanceSvc) *fiscalYearHandler {
	return &fiscalYearHandler{fiscalYearService: fys, balanceService: bs}
}

func registerFiscalYearRoutes(rg *gin.RouterGroup, fys portssvc.FiscalYearSvcFacade, bs portssvc.BalanceSvc) {
	h := newFiscalYearHandler(fys, bs)

	years := rg.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("", h.listFiscalYears)
		years.GET("/current", h.currentFiscalYear)
		years.GET("/:id", h.getFiscalYear)
		years.PATCH("/:id/opened", h.setOpened)
		years.GET("/:id/balances", h.accountBalances)
		years.GET("/:id/third-party-balances", h.thirdPartyBalances)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Declares a [start, end) accounting period. Periods may not overlap.
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   year body dto.CreateFiscalYearRequest true "Fiscal year"
// @Success 201 {object} domain.FiscalYear
// @Failure 400 {object} map[string]string "Invalid range or overlap"
// @Security BearerAuth
// @Router /fiscal-years [post]
func (h *fiscalYearHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalYearRequest
	if !bindJSON(c, &req, "CreateFiscalYear") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	year, err := h.fiscalYearService.CreateFiscalYear(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create fiscal year")
		return
	}
	logger.Info("Fiscal year created", slog.Int64("fiscal_year_id", year.FiscalYearID))
	c.JSON(http.StatusCreated, year)
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Tags fiscal-years
// @Produce  json
// @Success 200 {array} domain.FiscalYear
// @Security BearerAuth
// @Router /fiscal-years [get]
func (h *fiscalYearHandler) listFiscalYears(c *gin.Context) {
	years, err := h.fiscalYearService.ListFiscalYears(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list fiscal years")
		return
	}
	c.JSON(http.StatusOK, years)
}

// currentFiscalYear godoc
// @Summary Get the fiscal year containing today
// @Tags fiscal-years
// @Produce  json
// @Success 200 {object} domain.FiscalYear
// @Failure 404 {object} map[string]string "No fiscal year contains today"
// @Security BearerAuth
// @Router /fiscal-years/current [get]
func (h *fiscalYearHandler) currentFiscalYear(c *gin.Context) {
	year, err := h.fiscalYearService.CurrentFiscalYear(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve current fiscal year")
		return
	}
	c.JSON(http.StatusOK, year)
}

// getFiscalYear godoc
// @Summary Get a fiscal year
// @Tags fiscal-years
// @Produce  json
// @Param   id path int true "Fiscal year ID"
// @Success 200 {object} domain.FiscalYear
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Security BearerAuth
// @Router /fiscal-years/{id} [get]
func (h *fiscalYearHandler) getFiscalYear(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	year, err := h.fiscalYearService.GetFiscalYear(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve fiscal year")
		return
	}
	c.JSON(http.StatusOK, year)
}

// setOpened godoc
// @Summary Open or lock a fiscal year for writes
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   id path int true "Fiscal year ID"
// @Param   body body dto.SetOpenedRequest true "Opened flag"
// @Success 200 {object} domain.FiscalYear
// @Failure 409 {object} map[string]string "Year already closed"
// @Security BearerAuth
// @Router /fiscal-years/{id}/opened [patch]
func (h *fiscalYearHandler) setOpened(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetOpenedRequest
	if !bindJSON(c, &req, "SetOpened") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	year, err := h.fiscalYearService.SetOpened(c.Request.Context(), id, req.Opened, userID)
	if err != nil {
		respondError(c, err, "Failed to update fiscal year")
		return
	}
	c.JSON(http.StatusOK, year)
}

// accountBalances godoc
// @Summary Per-account totals of a fiscal year
// @Tags fiscal-years
// @Produce  json
// @Param   id path int true "Fiscal year ID"
// @Success 200 {array} domain.AccountTotals
// @Security BearerAuth
// @Router /fiscal-years/{id}/balances [get]
func (h *fiscalYearHandler) accountBalances(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	totals, err := h.balanceService.AccountBalances(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// thirdPartyBalances godoc
// @Summary Per-third-party totals of a fiscal year
// @Tags fiscal-years
// @Produce  json
// @Param   id path int true "Fiscal year ID"
// @Success 200 {array} domain.ThirdPartyTotals
// @Security BearerAuth
// @Router /fiscal-years/{id}/third-party-balances [get]
func (h *fiscalYearHandler) thirdPartyBalances(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	totals, err := h.balanceService.ThirdPartyBalances(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to compute third party balances")
		return
	}
	c.JSON(http.StatusOK, totals)
}
