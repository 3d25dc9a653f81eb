package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/dto"
	"github.com/SscSPs/cash_memo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for cross-day views of cash memos
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// getEntriesReport godoc
// @Summary Entries report
// @Description Flattens every entry of the memos in the range, applies the optional filters and totals the result. Opening balances are not part of the totals.
// @Tags reports
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Param category query string false "Debit category"
// @Param mazdoorId query string false "Mazdoor ID"
// @Param customerId query string false "Customer ID"
// @Param supplierId query string false "Supplier ID"
// @Param accountId query string false "Account ID"
// @Param description query string false "Case-insensitive description substring"
// @Success 200 {object} dto.EntriesReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /daily-cash-memos/entries [get]
func (h *reportingHandler) getEntriesReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.EntriesReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	filter, err := params.ToDomainFilter()
	if err != nil {
		respondError(c, err, "parse report filter")
		return
	}

	logger = logger.With(
		slog.String("start_date", params.StartDate),
		slog.String("end_date", params.EndDate),
	)
	logger.Info("Received request to generate entries report")

	report, err := h.reportingService.EntriesReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "generate entries report")
		return
	}

	logger.Info("Entries report generated successfully", slog.Int("row_count", report.Summary.Count))
	c.JSON(http.StatusOK, dto.ToEntriesReportResponse(report))
}

// listMemoSummaries godoc
// @Summary List cash memos
// @Description One line per day in the range with derived totals, ascending by date
// @Tags reports
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListMemoSummariesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /daily-cash-memos [get]
func (h *reportingHandler) listMemoSummaries(c *gin.Context) {
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	start, err := domain.ParseDate(params.StartDate)
	if err != nil {
		respondError(c, err, "parse date")
		return
	}
	end, err := domain.ParseDate(params.EndDate)
	if err != nil {
		respondError(c, err, "parse date")
		return
	}

	summaries, err := h.reportingService.ListMemoSummaries(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err, "list cash memos")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMemoSummariesResponse(summaries))
}
