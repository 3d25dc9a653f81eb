package handlers

import (
	"net/http"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// partyHandler serves the per-party views derived from entries.
type partyHandler struct {
	partyService portssvc.PartySvc
}

func newPartyHandler(ps portssvc.PartySvc) *partyHandler {
	return &partyHandler{partyService: ps}
}

func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvc) {
	h := newPartyHandler(partyService)

	parties := rg.Group("/parties/:kind")
	{
		parties.GET("", h.listParties)
		parties.GET("/:id", h.getParty)
		parties.GET("/:id/transactions", h.listTransactions)
	}
}

// listParties godoc
// @Summary List parties of a kind
// @Description Every account, customer, supplier or mazdoor referenced by at least one entry, with totals
// @Tags parties
// @Produce json
// @Param kind path string true "account, customer, supplier or mazdoor"
// @Success 200 {object} dto.ListPartiesResponse
// @Failure 400 {object} map[string]string "Unknown kind"
// @Security BearerAuth
// @Router /parties/{kind} [get]
func (h *partyHandler) listParties(c *gin.Context) {
	parties, err := h.partyService.ListParties(c.Request.Context(), domain.PartyKind(c.Param("kind")))
	if err != nil {
		respondError(c, err, "list parties")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPartiesResponse(parties))
}

// getParty godoc
// @Summary Get a party summary
// @Tags parties
// @Produce json
// @Param kind path string true "account, customer, supplier or mazdoor"
// @Param id path string true "Party ID"
// @Success 200 {object} dto.PartySummaryResponse
// @Failure 404 {object} map[string]string "No entry references the party"
// @Security BearerAuth
// @Router /parties/{kind}/{id} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	summary, err := h.partyService.GetPartySummary(c.Request.Context(), domain.PartyKind(c.Param("kind")), c.Param("id"))
	if err != nil {
		respondError(c, err, "get party")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartySummaryResponse(*summary))
}

// listTransactions godoc
// @Summary List a party's entries
// @Description Oldest first, paginated with an opaque token
// @Tags parties
// @Produce json
// @Param kind path string true "account, customer, supplier or mazdoor"
// @Param id path string true "Party ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.PartyTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /parties/{kind}/{id}/transactions [get]
func (h *partyHandler) listTransactions(c *gin.Context) {
	var params dto.ListPartyTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	page, err := h.partyService.ListPartyTransactions(c.Request.Context(),
		domain.PartyKind(c.Param("kind")), c.Param("id"), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "list party transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyTransactionsResponse(page))
}
