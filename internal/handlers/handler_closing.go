package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// closingHandler serves year-end operations and the consistency report.
type closingHandler struct {
	closingService portssvc.ClosingSvcFacade
	checkService   portssvc.CheckSvcFacade
	auditService   portssvc.AuditSvcFacade
}

func registerClosingRoutes(rg *gin.RouterGroup, cs portssvc.ClosingSvcFacade, chk portssvc.CheckSvcFacade, as portssvc.AuditSvcFacade) {
	h := &closingHandler{closingService: cs, checkService: chk, auditService: as}
	rg.POST("/closings", h.closeYear)
	rg.GET("/fiscal-years/:id/checks", h.runChecks)
	rg.GET("/audit/:entityType/:entityID", h.listAuditEvents)
}

// closeYear godoc
// @Summary Close a fiscal year
// @Description Posts the carry-forward entry into the new year and marks the old year closed.
// @Tags closing
// @Accept  json
// @Produce  json
// @Param   body body dto.CloseYearRequest true "Years"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid years or missing closing accounts"
// @Failure 409 {object} map[string]string "Year already closed"
// @Failure 422 {object} map[string]string "New year not opened"
// @Security BearerAuth
// @Router /closings [post]
func (h *closingHandler) closeYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseYearRequest
	if !bindJSON(c, &req, "CloseYear") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	detail, err := h.closingService.CloseYear(c.Request.Context(), req.OldYearID, req.NewYearID, userID)
	if err != nil {
		respondError(c, err, "Failed to close fiscal year")
		return
	}
	logger.Info("Fiscal year closed", slog.Int64("old_year_id", req.OldYearID), slog.Int64("carry_forward_entry_id", detail.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(detail))
}

// runChecks godoc
// @Summary Consistency report of a fiscal year
// @Tags closing
// @Produce  json
// @Param   id path int true "Fiscal year ID"
// @Success 200 {object} domain.CheckReport
// @Security BearerAuth
// @Router /fiscal-years/{id}/checks [get]
func (h *closingHandler) runChecks(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	report, err := h.checkService.RunChecks(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to run checks")
		return
	}
	c.JSON(http.StatusOK, report)
}

// listAuditEvents godoc
// @Summary Change log of an entity
// @Tags audit
// @Produce  json
// @Param   entityType path string true "Entity type, e.g. entry or transaction"
// @Param   entityID path int true "Entity ID"
// @Success 200 {array} domain.AuditEvent
// @Security BearerAuth
// @Router /audit/{entityType}/{entityID} [get]
func (h *closingHandler) listAuditEvents(c *gin.Context) {
	id, ok := idParam(c, "entityID")
	if !ok {
		return
	}
	events, err := h.auditService.ListAuditEvents(c.Request.Context(), c.Param("entityType"), id)
	if err != nil {
		respondError(c, err, "Failed to list audit events")
		return
	}
	c.JSON(http.StatusOK, events)
}

// exportHandler serves the downstream bookkeeping feed.
type exportHandler struct {
	exportService portssvc.ExportSvcFacade
}

func registerExportRoutes(rg *gin.RouterGroup, es portssvc.ExportSvcFacade) {
	h := &exportHandler{exportService: es}
	rg.GET("/entries", h.exportEntries)
	rg.POST("/mark-exported", h.markExported)
}

// exportEntries godoc
// @Summary Export the entries of a fiscal year
// @Description Semicolon-delimited rows: journal;DDMMYY;account;entry;third party;title;expense;revenue.
// @Tags export
// @Produce  text/csv
// @Param   fiscalYearID query int true "Fiscal year ID"
// @Param   pendingOnly query bool false "Only entries not yet exported" default(true)
// @Success 200 {string} string "Export rows"
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /export/entries [get]
func (h *exportHandler) exportEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	yearID, ok := optionalIDQuery(c, "fiscalYearID")
	if !ok {
		return
	}
	if yearID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fiscalYearID is required"})
		return
	}
	pendingOnly := true
	if raw := c.Query("pendingOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pendingOnly"})
			return
		}
		pendingOnly = v
	}

	var buf bytes.Buffer
	entryIDs, err := h.exportService.Export(c.Request.Context(), *yearID, pendingOnly, &buf)
	if err != nil {
		respondError(c, err, "Failed to export entries")
		return
	}
	logger.Info("Entries exported", slog.Int64("fiscal_year_id", *yearID), slog.Int("entries", len(entryIDs)))
	c.Header("X-Exported-Entries", strconv.Itoa(len(entryIDs)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// markExported godoc
// @Summary Flag entries as exported
// @Tags export
// @Accept  json
// @Produce  json
// @Param   body body dto.MarkExportedRequest true "Entries"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string "Entry not found"
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /export/mark-exported [post]
func (h *exportHandler) markExported(c *gin.Context) {
	var req dto.MarkExportedRequest
	if !bindJSON(c, &req, "MarkExported") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	n, err := h.exportService.MarkExported(c.Request.Context(), req.EntryIDs, userID)
	if err != nil {
		respondError(c, err, "Failed to mark entries exported")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
