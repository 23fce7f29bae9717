package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finpanel/internal/services"
)

// --- mock dashboard service ---

type mockDashboardService struct {
	getKPIsFn               func(startDate, endDate *time.Time) (*services.DashboardKPIs, error)
	getExpensesByCategoryFn func(startDate, endDate *time.Time) ([]services.CategoryExpense, error)
	getReportExpensesFn     func(startDate, endDate *time.Time) ([]services.CategoryExpense, error)
	getBalanceOverTimeFn    func(startDate, endDate *time.Time) ([]services.BalancePoint, error)
}

func (m *mockDashboardService) GetKPIs(startDate, endDate *time.Time) (*services.DashboardKPIs, error) {
	if m.getKPIsFn != nil {
		return m.getKPIsFn(startDate, endDate)
	}
	return &services.DashboardKPIs{}, nil
}

func (m *mockDashboardService) GetExpensesByCategory(startDate, endDate *time.Time) ([]services.CategoryExpense, error) {
	if m.getExpensesByCategoryFn != nil {
		return m.getExpensesByCategoryFn(startDate, endDate)
	}
	return []services.CategoryExpense{}, nil
}

func (m *mockDashboardService) GetReportExpensesByCategory(startDate, endDate *time.Time) ([]services.CategoryExpense, error) {
	if m.getReportExpensesFn != nil {
		return m.getReportExpensesFn(startDate, endDate)
	}
	return []services.CategoryExpense{}, nil
}

func (m *mockDashboardService) GetBalanceOverTime(startDate, endDate *time.Time) ([]services.BalancePoint, error) {
	if m.getBalanceOverTimeFn != nil {
		return m.getBalanceOverTimeFn(startDate, endDate)
	}
	return []services.BalancePoint{}, nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func setupDashboardRouter(handler *DashboardHandler, report *ReportHandler) *gin.Engine {
	r := gin.New()
	r.GET("/dashboard/kpis", handler.GetKPIs)
	r.GET("/dashboard/expenses-by-category", handler.GetExpensesByCategory)
	r.GET("/dashboard/balance-over-time", handler.GetBalanceOverTime)
	r.GET("/reports/expenses-by-category", report.GetExpensesByCategory)
	return r
}

func TestDashboardHandler_GetKPIs(t *testing.T) {
	t.Run("returns 200 with totals", func(t *testing.T) {
		svc := &mockDashboardService{
			getKPIsFn: func(_, _ *time.Time) (*services.DashboardKPIs, error) {
				return &services.DashboardKPIs{
					TotalIncome:  3000,
					TotalExpense: 1200,
					Balance:      1800,
				}, nil
			},
		}
		r := setupDashboardRouter(NewDashboardHandler(svc), NewReportHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/kpis", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["balance"].(float64) != 1800 {
			t.Errorf("expected balance 1800, got %v", result["balance"])
		}
	})

	t.Run("forwards parsed date bounds", func(t *testing.T) {
		var capturedStart, capturedEnd *time.Time
		svc := &mockDashboardService{
			getKPIsFn: func(startDate, endDate *time.Time) (*services.DashboardKPIs, error) {
				capturedStart, capturedEnd = startDate, endDate
				return &services.DashboardKPIs{}, nil
			},
		}
		r := setupDashboardRouter(NewDashboardHandler(svc), NewReportHandler(svc))

		doRequest(r, "GET", "/dashboard/kpis?start_date=2024-03-01&end_date=2024-03-31", "")

		if capturedStart == nil || capturedStart.Format("2006-01-02") != "2024-03-01" {
			t.Error("expected start date to be forwarded")
		}
		if capturedEnd == nil || capturedEnd.Format("2006-01-02") != "2024-03-31" {
			t.Error("expected end date to be forwarded")
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		svc := &mockDashboardService{}
		r := setupDashboardRouter(NewDashboardHandler(svc), NewReportHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/kpis?start_date=01/03/2024", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestDashboardHandler_GetExpensesByCategory(t *testing.T) {
	svc := &mockDashboardService{
		getExpensesByCategoryFn: func(_, _ *time.Time) ([]services.CategoryExpense, error) {
			return []services.CategoryExpense{
				{Name: "Groceries", Value: 150},
				{Name: "Uncategorized", Value: 30},
			}, nil
		},
	}
	r := setupDashboardRouter(NewDashboardHandler(svc), NewReportHandler(svc))

	rec := doRequest(r, "GET", "/dashboard/expenses-by-category", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("expected 2 buckets, got %d", len(data))
	}
}

func TestDashboardHandler_GetBalanceOverTime(t *testing.T) {
	svc := &mockDashboardService{
		getBalanceOverTimeFn: func(_, _ *time.Time) ([]services.BalancePoint, error) {
			return []services.BalancePoint{
				{Date: "2024-03-01", Income: 1000, Balance: 1000},
				{Date: "2024-03-02", Expense: 300, Balance: 700},
			}, nil
		},
	}
	r := setupDashboardRouter(NewDashboardHandler(svc), NewReportHandler(svc))

	rec := doRequest(r, "GET", "/dashboard/balance-over-time", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 points, got %d", len(data))
	}
	last := data[1].(map[string]interface{})
	if last["balance"].(float64) != 700 {
		t.Errorf("expected running balance 700, got %v", last["balance"])
	}
}

func TestReportHandler_GetExpensesByCategory(t *testing.T) {
	svc := &mockDashboardService{
		getReportExpensesFn: func(_, _ *time.Time) ([]services.CategoryExpense, error) {
			return []services.CategoryExpense{
				{Name: "Rent", Value: 1200},
				{Name: "Coffee", Value: 15},
			}, nil
		},
	}
	r := setupDashboardRouter(NewDashboardHandler(svc), NewReportHandler(svc))

	rec := doRequest(r, "GET", "/reports/expenses-by-category", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	first := data[0].(map[string]interface{})
	if first["name"] != "Rent" {
		t.Errorf("expected Rent first, got %v", first["name"])
	}
}
