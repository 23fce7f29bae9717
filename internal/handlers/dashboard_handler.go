package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpanel/internal/services"
)

// DashboardHandler handles dashboard KPI and chart requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetKPIs handles the dashboard KPI cards.
// @Summary     Dashboard KPIs
// @Description Get period totals with period-over-period percentage deltas
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} services.DashboardKPIs "KPI snapshot"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /dashboard/kpis [get]
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
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

	kpis, err := h.dashboardService.GetKPIs(startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, kpis)
}

// GetExpensesByCategory handles the expense breakdown chart.
// @Summary     Expenses by category
// @Description Get expense totals grouped by category name
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {array} services.CategoryExpense "Chart data"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /dashboard/expenses-by-category [get]
func (h *DashboardHandler) GetExpensesByCategory(c *gin.Context) {
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

	data, err := h.dashboardService.GetExpensesByCategory(startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GetBalanceOverTime handles the running balance chart.
// @Summary     Balance over time
// @Description Get per-day income/expense sums with a running balance
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {array} services.BalancePoint "Chart data"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /dashboard/balance-over-time [get]
func (h *DashboardHandler) GetBalanceOverTime(c *gin.Context) {
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

	data, err := h.dashboardService.GetBalanceOverTime(startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
