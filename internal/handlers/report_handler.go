package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpanel/internal/services"
)

// ReportHandler handles report requests.
type ReportHandler struct {
	dashboardService services.DashboardServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(dashboardService services.DashboardServicer) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService}
}

// GetExpensesByCategory handles the expense report, ordered largest first.
// @Summary     Expense report by category
// @Description Get expense totals grouped by category, ordered from largest to smallest
// @Tags        reports
// @Accept      json
// @Produce     json
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {array} services.CategoryExpense "Report data"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/expenses-by-category [get]
func (h *ReportHandler) GetExpensesByCategory(c *gin.Context) {
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

	data, err := h.dashboardService.GetReportExpensesByCategory(startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
