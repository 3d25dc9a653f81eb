package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/dto"
	"github.com/SscSPs/cash_memo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashMemoHandler handles HTTP requests related to daily cash memos.
type cashMemoHandler struct {
	cashMemoService portssvc.CashMemoSvcFacade
}

// newCashMemoHandler creates a new cashMemoHandler.
func newCashMemoHandler(cs portssvc.CashMemoSvcFacade) *cashMemoHandler {
	return &cashMemoHandler{
		cashMemoService: cs,
	}
}

// registerCashMemoRoutes registers routes related to daily cash memos.
func registerCashMemoRoutes(rg *gin.RouterGroup, cashMemoService portssvc.CashMemoSvcFacade, reportingService portssvc.ReportingService) {
	h := newCashMemoHandler(cashMemoService)
	rh := newReportingHandler(reportingService)

	memos := rg.Group("/daily-cash-memos")
	{
		memos.GET("", rh.listMemoSummaries)
		memos.GET("/entries", rh.getEntriesReport)
		memos.GET("/previous-balance", h.getPreviousBalance)
		memos.POST("", h.createMemo)
		memos.POST("/recompute", h.recompute)

		memos.PUT("/:id", h.replaceMemo)
		memos.POST("/:id/post", h.postMemo)
		memos.POST("/:id/:kind", h.addEntryToMemo)

		byDate := memos.Group("/date/:date")
		byDate.GET("", h.getMemoByDate)
		byDate.PUT("/notes", h.saveNotes)
		byDate.POST("/:kind", h.addEntryByDate)
		byDate.POST("/:kind/remove", h.removeEntryByShape)
		byDate.PATCH("/:kind/:entryID", h.editEntry)
		byDate.DELETE("/:kind/:entryID", h.deleteEntry)
	}
}

// parseDateParam reads the :date path segment, answering 400 when it is malformed.
func parseDateParam(c *gin.Context) (time.Time, bool) {
	d, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		respondError(c, err, "parse date")
		return time.Time{}, false
	}
	return d, true
}

func parseKindParam(c *gin.Context) (domain.EntryKind, bool) {
	kind, err := domain.ParseEntryKind(c.Param("kind"))
	if err != nil {
		respondError(c, err, "parse entry kind")
		return "", false
	}
	return kind, true
}

// getMemoByDate godoc
// @Summary Get the cash memo of a day
// @Description Returns the memo for the date with derived totals. Served from cache when possible.
// @Tags daily-cash-memos
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No memo for this date"
// @Failure 502 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /daily-cash-memos/date/{date} [get]
func (h *cashMemoHandler) getMemoByDate(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	memo, err := h.cashMemoService.GetMemoByDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, err, "get cash memo")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// getPreviousBalance godoc
// @Summary Resolve the opening balance of a new day
// @Description Returns the closing balance of the latest memo before the date, or zero
// @Tags daily-cash-memos
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.PreviousBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 409 {object} map[string]string "A memo already exists for the date"
// @Security BearerAuth
// @Router /daily-cash-memos/previous-balance [get]
func (h *cashMemoHandler) getPreviousBalance(c *gin.Context) {
	var params dto.DateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	date, err := domain.ParseDate(params.Date)
	if err != nil {
		respondError(c, err, "parse date")
		return
	}
	balance, err := h.cashMemoService.ResolveOpeningBalance(c.Request.Context(), date)
	if err != nil {
		respondError(c, err, "resolve previous balance")
		return
	}
	c.JSON(http.StatusOK, dto.PreviousBalanceResponse{Date: domain.FormatDate(date), PreviousBalance: balance})
}

// createMemo godoc
// @Summary Create the cash memo of a day
// @Description Opens a day with the given entries. The opening balance is always resolved server-side.
// @Tags daily-cash-memos
// @Accept json
// @Produce json
// @Param memo body dto.CreateCashMemoRequest true "Day to create"
// @Success 201 {object} dto.CashMemoResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "A memo already exists for the date"
// @Security BearerAuth
// @Router /daily-cash-memos [post]
func (h *cashMemoHandler) createMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCashMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		respondError(c, err, "parse date")
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}
	if req.OpeningBalance != nil {
		logger.Debug("Ignoring client supplied opening balance", slog.String("opening_balance", req.OpeningBalance.String()))
	}

	memo, err := h.cashMemoService.CreateMemo(c.Request.Context(), portssvc.CreateMemoInput{
		Date:          date,
		CreditEntries: dto.ToDomainEntries(domain.CreditEntry, req.CreditEntries),
		DebitEntries:  dto.ToDomainEntries(domain.DebitEntry, req.DebitEntries),
		Notes:         req.Notes,
	}, meta)
	if err != nil {
		respondError(c, err, "create cash memo")
		return
	}
	logger.Info("Cash memo created", slog.String("memo_id", memo.MemoID), slog.String("date", req.Date))
	c.JSON(http.StatusCreated, dto.ToCashMemoResponse(memo))
}

// addEntryByDate godoc
// @Summary Add an entry to a day
// @Description Appends a credit or debit entry, creating the day with a resolved opening balance when it does not exist yet
// @Tags daily-cash-memos
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param kind path string true "credit or debit"
// @Param If-Match header string false "Expected memo version"
// @Param entry body dto.EntryRequest true "Entry"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Memo is posted"
// @Failure 412 {object} map[string]string "Version mismatch"
// @Security BearerAuth
// @Router /daily-cash-memos/date/{date}/{kind} [post]
func (h *cashMemoHandler) addEntryByDate(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}

	memo, err := h.cashMemoService.AddEntry(c.Request.Context(), date, req.ToDomain(kind), meta)
	if err != nil {
		respondError(c, err, "add entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// addEntryToMemo godoc
// @Summary Add an entry to an existing memo
// @Tags daily-cash-memos
// @Accept json
// @Produce json
// @Param id path string true "Memo ID"
// @Param kind path string true "credit or debit"
// @Param If-Match header string false "Expected memo version"
// @Param entry body dto.EntryRequest true "Entry"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 404 {object} map[string]string "Memo not found"
// @Failure 409 {object} map[string]string "Memo is posted"
// @Security BearerAuth
// @Router /daily-cash-memos/{id}/{kind} [post]
func (h *cashMemoHandler) addEntryToMemo(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}

	memo, err := h.cashMemoService.AddEntryToMemo(c.Request.Context(), c.Param("id"), req.ToDomain(kind), meta)
	if err != nil {
		respondError(c, err, "add entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// editEntry godoc
// @Summary Edit an entry
// @Description Changes the supplied fields of an entry. Its ID, kind and creation time are kept.
// @Tags daily-cash-memos
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param kind path string true "credit or debit"
// @Param entryID path string true "Entry ID"
// @Param If-Match header string false "Expected memo version"
// @Param patch body dto.EditEntryRequest true "Fields to change"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 404 {object} map[string]string "Memo or entry not found"
// @Failure 409 {object} map[string]string "Memo is posted"
// @Failure 412 {object} map[string]string "Version mismatch"
// @Security BearerAuth
// @Router /daily-cash-memos/date/{date}/{kind}/{entryID} [patch]
func (h *cashMemoHandler) editEntry(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	var req dto.EditEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}

	memo, err := h.cashMemoService.EditEntry(c.Request.Context(), date, kind, c.Param("entryID"), req.ToDomainPatch(), meta)
	if err != nil {
		respondError(c, err, "edit entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// deleteEntry godoc
// @Summary Delete an entry by ID
// @Tags daily-cash-memos
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param kind path string true "credit or debit"
// @Param entryID path string true "Entry ID"
// @Param If-Match header string false "Expected memo version"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 404 {object} map[string]string "Memo or entry not found"
// @Failure 409 {object} map[string]string "Memo is posted"
// @Security BearerAuth
// @Router /daily-cash-memos/date/{date}/{kind}/{entryID} [delete]
func (h *cashMemoHandler) deleteEntry(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}

	memo, err := h.cashMemoService.DeleteEntry(c.Request.Context(), date, kind, domain.EntryRef{EntryID: c.Param("entryID")}, meta)
	if err != nil {
		respondError(c, err, "delete entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// removeEntryByShape godoc
// @Summary Delete an entry by its content
// @Description For entries the client never learned the ID of: removes the first entry with the same name, description, amount and category
// @Tags daily-cash-memos
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param kind path string true "credit or debit"
// @Param entry body dto.EntryRequest true "Entry as last seen by the client"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 404 {object} map[string]string "No matching entry"
// @Security BearerAuth
// @Router /daily-cash-memos/date/{date}/{kind}/remove [post]
func (h *cashMemoHandler) removeEntryByShape(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}

	ref := domain.EntryRef{EntryID: req.ID}
	if req.ID == "" {
		shape := req.ToDomain(kind)
		ref.Shape = &shape
	}
	memo, err := h.cashMemoService.DeleteEntry(c.Request.Context(), date, kind, ref, meta)
	if err != nil {
		respondError(c, err, "delete entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// replaceMemo godoc
// @Summary Replace the entries and/or notes of a memo
// @Description Entries are replaced when both creditEntries and debitEntries are supplied. Entries carrying a known id keep it.
// @Tags daily-cash-memos
// @Accept json
// @Produce json
// @Param id path string true "Memo ID"
// @Param If-Match header string false "Expected memo version"
// @Param memo body dto.ReplaceCashMemoRequest true "Replacement"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Memo not found"
// @Failure 409 {object} map[string]string "Memo is posted"
// @Failure 412 {object} map[string]string "Version mismatch"
// @Security BearerAuth
// @Router /daily-cash-memos/{id} [put]
func (h *cashMemoHandler) replaceMemo(c *gin.Context) {
	var req dto.ReplaceCashMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	if (req.CreditEntries == nil) != (req.DebitEntries == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creditEntries and debitEntries must be supplied together"})
		return
	}
	meta, ok := withMeta(c, req.ExpectedVersion)
	if !ok {
		return
	}

	input := portssvc.ReplaceMemoInput{Notes: req.Notes}
	if req.CreditEntries != nil {
		input.Entries = &portssvc.EntrySet{
			CreditEntries: dto.ToDomainEntries(domain.CreditEntry, req.CreditEntries),
			DebitEntries:  dto.ToDomainEntries(domain.DebitEntry, req.DebitEntries),
		}
	}
	memo, err := h.cashMemoService.ReplaceMemo(c.Request.Context(), c.Param("id"), input, meta)
	if err != nil {
		respondError(c, err, "replace cash memo")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// saveNotes godoc
// @Summary Save the notes of a day
// @Description Allowed on posted memos too. Creates the day when it does not exist yet.
// @Tags daily-cash-memos
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param notes body dto.SaveNotesRequest true "Notes"
// @Success 200 {object} dto.CashMemoResponse
// @Security BearerAuth
// @Router /daily-cash-memos/date/{date}/notes [put]
func (h *cashMemoHandler) saveNotes(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	var req dto.SaveNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}

	memo, err := h.cashMemoService.SaveNotes(c.Request.Context(), date, req.Notes, meta)
	if err != nil {
		respondError(c, err, "save notes")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// postMemo godoc
// @Summary Post a memo
// @Description Freezes a draft memo. Entries can no longer change afterwards.
// @Tags daily-cash-memos
// @Produce json
// @Param id path string true "Memo ID"
// @Param If-Match header string false "Expected memo version"
// @Success 200 {object} dto.CashMemoResponse
// @Failure 409 {object} map[string]string "Missing or already posted"
// @Security BearerAuth
// @Router /daily-cash-memos/{id}/post [post]
func (h *cashMemoHandler) postMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}
	memo, err := h.cashMemoService.PostMemo(c.Request.Context(), c.Param("id"), meta)
	if err != nil {
		respondError(c, err, "post cash memo")
		return
	}
	logger.Info("Cash memo posted", slog.String("memo_id", memo.MemoID))
	c.JSON(http.StatusOK, dto.ToCashMemoResponse(memo))
}

// recompute godoc
// @Summary Re-chain opening balances
// @Description Rewrites the opening balance of every draft day on or after fromDate. Posted days are reported when they drifted.
// @Tags daily-cash-memos
// @Produce json
// @Param fromDate query string true "First day (YYYY-MM-DD)"
// @Success 200 {object} dto.RecomputeResponse
// @Security BearerAuth
// @Router /daily-cash-memos/recompute [post]
func (h *cashMemoHandler) recompute(c *gin.Context) {
	var params dto.RecomputeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	from, err := domain.ParseDate(params.FromDate)
	if err != nil {
		respondError(c, err, "parse date")
		return
	}
	meta, ok := withMeta(c, nil)
	if !ok {
		return
	}
	result, err := h.cashMemoService.RecomputeForward(c.Request.Context(), from, meta)
	if err != nil {
		respondError(c, err, "recompute opening balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecomputeResponse(result))
}
