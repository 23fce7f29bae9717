package services

import (
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/models"
)

// dashboardService computes the dashboard KPIs and chart series.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// periodTotals holds the per-type sums for one period.
type periodTotals struct {
	Income     float64
	Expense    float64
	Investment float64
}

func (p periodTotals) balance() float64 {
	return p.Income - p.Expense
}

// totalsForPeriod sums transaction values by type over inclusive bounds.
// A nil bound leaves that side unbounded.
func (s *dashboardService) totalsForPeriod(startDate, endDate *time.Time) (periodTotals, error) {
	q := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(value), 0) AS total").
		Group("type")
	if startDate != nil {
		q = q.Where("date >= ?", models.DateOnly(*startDate))
	}
	if endDate != nil {
		q = q.Where("date <= ?", models.DateOnly(*endDate))
	}

	var rows []struct {
		Type  models.TransactionType
		Total float64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return periodTotals{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totals periodTotals
	for _, r := range rows {
		switch r.Type {
		case models.TransactionTypeIncome:
			totals.Income = r.Total
		case models.TransactionTypeExpense:
			totals.Expense = r.Total
		case models.TransactionTypeInvestment:
			totals.Investment = r.Total
		}
	}
	return totals, nil
}

// percentageChange returns the percentage delta between two values, rounded
// to two decimals. A zero previous value yields 0 even when current is
// non-zero; clients depend on that asymmetry.
func percentageChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round((current-previous)/previous*100*100) / 100
}

// GetKPIs computes current-period totals and period-over-period deltas.
// The previous period is the immediately preceding span of identical
// duration, and is only computed when both bounds are given.
func (s *dashboardService) GetKPIs(startDate, endDate *time.Time) (*DashboardKPIs, error) {
	current, err := s.totalsForPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var previous periodTotals
	if startDate != nil && endDate != nil {
		duration := models.DateOnly(*endDate).Sub(models.DateOnly(*startDate))
		prevEnd := models.DateOnly(*startDate).AddDate(0, 0, -1)
		prevStart := prevEnd.Add(-duration)

		previous, err = s.totalsForPeriod(&prevStart, &prevEnd)
		if err != nil {
			return nil, err
		}
	}

	return &DashboardKPIs{
		TotalIncome:                current.Income,
		TotalExpense:               current.Expense,
		TotalInvestment:            current.Investment,
		Balance:                    current.balance(),
		IncomeChangePercentage:     percentageChange(current.Income, previous.Income),
		ExpenseChangePercentage:    percentageChange(current.Expense, previous.Expense),
		InvestmentChangePercentage: percentageChange(current.Investment, previous.Investment),
		BalanceChangePercentage:    percentageChange(current.balance(), previous.balance()),
	}, nil
}

// expensesByCategory groups expense sums by category name. Transactions
// without a category land under the "Uncategorized" label.
func (s *dashboardService) expensesByCategory(startDate, endDate *time.Time, orderByTotal bool) ([]CategoryExpense, error) {
	q := s.db.Model(&models.Transaction{}).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Select("categories.name AS name, COALESCE(SUM(transactions.value), 0) AS total").
		Where("transactions.type = ?", models.TransactionTypeExpense).
		Group("categories.name")
	if startDate != nil {
		q = q.Where("transactions.date >= ?", models.DateOnly(*startDate))
	}
	if endDate != nil {
		q = q.Where("transactions.date <= ?", models.DateOnly(*endDate))
	}
	if orderByTotal {
		q = q.Order("total DESC")
	}

	var rows []struct {
		Name  *string
		Total float64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make([]CategoryExpense, 0, len(rows))
	for _, r := range rows {
		name := "Uncategorized"
		if r.Name != nil && *r.Name != "" {
			name = *r.Name
		}
		result = append(result, CategoryExpense{Name: name, Value: r.Total})
	}
	return result, nil
}

// GetExpensesByCategory returns the expense breakdown in grouping order.
func (s *dashboardService) GetExpensesByCategory(startDate, endDate *time.Time) ([]CategoryExpense, error) {
	return s.expensesByCategory(startDate, endDate, false)
}

// GetReportExpensesByCategory returns the expense breakdown ordered from
// largest to smallest total.
func (s *dashboardService) GetReportExpensesByCategory(startDate, endDate *time.Time) ([]CategoryExpense, error) {
	return s.expensesByCategory(startDate, endDate, true)
}

// GetBalanceOverTime returns per-day income and expense sums in ascending
// date order with a running balance carried forward across the whole
// series. The balance is not reset at period boundaries.
func (s *dashboardService) GetBalanceOverTime(startDate, endDate *time.Time) ([]BalancePoint, error) {
	q := s.db.Model(&models.Transaction{}).
		Select("date, " +
			"COALESCE(SUM(CASE WHEN type = 'income' THEN value ELSE 0 END), 0) AS income, " +
			"COALESCE(SUM(CASE WHEN type = 'expense' THEN value ELSE 0 END), 0) AS expense").
		Group("date").
		Order("date")
	if startDate != nil {
		q = q.Where("date >= ?", models.DateOnly(*startDate))
	}
	if endDate != nil {
		q = q.Where("date <= ?", models.DateOnly(*endDate))
	}

	var rows []struct {
		Date    time.Time
		Income  float64
		Expense float64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	series := make([]BalancePoint, 0, len(rows))
	runningBalance := 0.0
	for _, r := range rows {
		runningBalance += r.Income - r.Expense
		series = append(series, BalancePoint{
			Date:    r.Date.Format("2006-01-02"),
			Income:  r.Income,
			Expense: r.Expense,
			Balance: runningBalance,
		})
	}
	return series, nil
}
