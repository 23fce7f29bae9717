package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/models"
	"finpanel/internal/pagination"
	"finpanel/internal/services"
)

// defaultRecentLimit bounds the dashboard's recent-transactions table.
const defaultRecentLimit = 5

// TransactionHandler handles transaction ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// QuickEntryRequest represents the minimal-field quick entry payload.
type QuickEntryRequest struct {
	Description  string     `json:"description" binding:"required"`
	Value        float64    `json:"value" binding:"required,gte=0"`
	Type         string     `json:"type" binding:"required"`
	CategoryName string     `json:"category_name"`
	Date         *time.Time `json:"date"`
	Account      *string    `json:"account"`
}

// UpdateTransactionRequest carries partial-update fields. Absent fields are
// left untouched; an explicit null category_name clears the reference only
// when keyword matching also misses.
type UpdateTransactionRequest struct {
	Description  *string    `json:"description"`
	Value        *float64   `json:"value" binding:"omitempty,gte=0"`
	Type         *string    `json:"type" binding:"omitempty,transaction_type"`
	Date         *time.Time `json:"date"`
	CategoryName *string    `json:"category_name"`
}

// CreateQuickEntry handles the quick-entry creation path.
// @Summary     Quick entry
// @Description Create a transaction from the quick-entry pop-up; category is auto-resolved
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body QuickEntryRequest true "Quick entry details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateQuickEntry(c *gin.Context) {
	var req QuickEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateQuickEntry(services.QuickEntry{
		Description:  req.Description,
		Value:        req.Value,
		Type:         models.TransactionType(req.Type),
		CategoryName: req.CategoryName,
		Date:         req.Date,
		Account:      req.Account,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactions handles the filtered, paginated listing with summary.
// @Summary     List transactions
// @Description List transactions with optional search/type/month filters, plus a summary over the whole filtered set
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       search     query string false "Substring match on description or category name"
// @Param       type       query string false "Filter by type (income/expense/investment)"
// @Param       month_year query string false "Filter by month (YYYY-MM)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} services.TransactionPage "Transactions and summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Search:    c.Query("search"),
		MonthYear: c.Query("month_year"),
	}
	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			respondWithError(c, apperrors.ErrInvalidTransactionType)
			return
		}
		filter.Type = &txType
	}

	result, err := h.transactionService.ListTransactions(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentTransactions handles the home-page recent transactions table.
// @Summary     Recent transactions
// @Description Get the most recent transactions, optionally bounded by dates
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       limit      query int    false "Number of rows (default 5)"
// @Success     200 {array} services.TransactionDetail "Recent transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions/recent [get]
func (h *TransactionHandler) GetRecentTransactions(c *gin.Context) {
	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := defaultRecentLimit
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
	}

	transactions, err := h.transactionService.GetRecentTransactions(startDate, endDate, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// UpdateTransaction handles partial updates of a transaction.
// @Summary     Update transaction
// @Description Update only the supplied fields of a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.TransactionPatch{
		Description:  req.Description,
		Value:        req.Value,
		Date:         req.Date,
		CategoryName: req.CategoryName,
	}
	if req.Type != nil {
		txType := models.TransactionType(*req.Type)
		patch.Type = &txType
	}

	transaction, err := h.transactionService.UpdateTransaction(transactionID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction by ID.
// @Summary     Delete transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// GetAvailableMonths handles the month filter dropdown data.
// @Summary     Available months
// @Description Get the distinct YYYY-MM months that have transactions, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Success     200 {array} string "Months"
// @Router      /transactions/months [get]
func (h *TransactionHandler) GetAvailableMonths(c *gin.Context) {
	months, err := h.transactionService.GetAvailableMonths()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}

// GetUncategorizedCount handles the uncategorized badge counter.
// @Summary     Uncategorized count
// @Description Count transactions that have no category reference
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Success     200 {object} map[string]int64 "Count"
// @Router      /transactions/uncategorized-count [get]
func (h *TransactionHandler) GetUncategorizedCount(c *gin.Context) {
	count, err := h.transactionService.GetUncategorizedCount()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
