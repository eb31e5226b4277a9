package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type letteringHandler struct {
	letteringService portssvc.LetteringSvcFacade
}

func registerLetteringRoutes(rg *gin.RouterGroup, ls portssvc.LetteringSvcFacade) {
	h := &letteringHandler{letteringService: ls}
	rg.POST("/letters", h.letter)
	rg.DELETE("/letters/:id", h.unletter)
	rg.GET("/accounts/:id/open-transactions", h.openTransactions)
}

// letter godoc
// @Summary Letter transactions together
// @Description Groups unlettered transactions of one account and one third party whose amounts net to zero.
// @Tags lettering
// @Accept  json
// @Produce  json
// @Param   body body dto.LetterRequest true "Transactions to letter"
// @Success 201 {object} dto.LetterResponse
// @Failure 400 {object} map[string]string "Unbalanced or mixed accounts or third parties"
// @Failure 409 {object} map[string]string "A transaction is already lettered"
// @Security BearerAuth
// @Router /letters [post]
func (h *letteringHandler) letter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LetterRequest
	if !bindJSON(c, &req, "Letter") {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	letter, err := h.letteringService.Letter(c.Request.Context(), req.TransactionIDs, userID)
	if err != nil {
		respondError(c, err, "Failed to letter transactions")
		return
	}
	logger.Info("Transactions lettered", slog.String("label", letter.Label()), slog.Int("count", len(req.TransactionIDs)))
	c.JSON(http.StatusCreated, dto.ToLetterResponse(letter))
}

// unletter godoc
// @Summary Remove a letter
// @Tags lettering
// @Param   id path int true "Letter ID"
// @Success 204
// @Failure 404 {object} map[string]string "Letter not found"
// @Security BearerAuth
// @Router /letters/{id} [delete]
func (h *letteringHandler) unletter(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.letteringService.Unletter(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to remove letter")
		return
	}
	c.Status(http.StatusNoContent)
}

// openTransactions godoc
// @Summary Unlettered transactions of an account
// @Tags lettering
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   thirdPartyID query int false "Restrict to a third party"
// @Success 200 {array} dto.TransactionResponse
// @Security BearerAuth
// @Router /accounts/{id}/open-transactions [get]
func (h *letteringHandler) openTransactions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	thirdPartyID, ok := optionalIDQuery(c, "thirdPartyID")
	if !ok {
		return
	}
	txns, err := h.letteringService.OpenTransactions(c.Request.Context(), id, thirdPartyID)
	if err != nil {
		respondError(c, err, "Failed to list open transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}
