package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/models"
	"finpanel/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	getGoalsPageFn func(filterPeriod string) (*services.GoalsPage, error)
	createGoalFn   func(input services.GoalInput) (*models.Goal, error)
	updateGoalFn   func(goalID uint, patch services.GoalPatch) (*models.Goal, error)
	deleteGoalFn   func(goalID uint) error
	contributeFn   func(goalID uint, amount float64) (*models.Goal, error)
}

func (m *mockGoalService) GetGoalsPage(filterPeriod string) (*services.GoalsPage, error) {
	if m.getGoalsPageFn != nil {
		return m.getGoalsPageFn(filterPeriod)
	}
	return &services.GoalsPage{Goals: []services.GoalView{}}, nil
}

func (m *mockGoalService) CreateGoal(input services.GoalInput) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(input)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(goalID uint, patch services.GoalPatch) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(goalID, patch)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(goalID uint) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(goalID)
	}
	return nil
}

func (m *mockGoalService) Contribute(goalID uint, amount float64) (*models.Goal, error) {
	if m.contributeFn != nil {
		return m.contributeFn(goalID, amount)
	}
	return &models.Goal{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	r.GET("/goals", handler.GetGoalsPage)
	r.POST("/goals", handler.CreateGoal)
	r.PUT("/goals/:id", handler.UpdateGoal)
	r.DELETE("/goals/:id", handler.DeleteGoal)
	r.POST("/goals/:id/contribute", handler.Contribute)
	return r
}

func TestGoalHandler_GetGoalsPage(t *testing.T) {
	t.Run("returns 200 with goals and summary", func(t *testing.T) {
		svc := &mockGoalService{
			getGoalsPageFn: func(_ string) (*services.GoalsPage, error) {
				return &services.GoalsPage{
					Goals: []services.GoalView{
						{ID: 1, Name: "Emergency Fund", Type: models.GoalTypeSaving, ProgressPercentage: 40},
					},
					Summary: services.GoalsSummary{ActiveGoalsCount: 1, SavingGoalsCount: 1},
				}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "GET", "/goals", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goals := result["goals"].([]interface{})
		if len(goals) != 1 {
			t.Fatalf("expected 1 goal, got %d", len(goals))
		}
		summary := result["summary"].(map[string]interface{})
		if summary["active_goals_count"].(float64) != 1 {
			t.Errorf("expected 1 active goal, got %v", summary["active_goals_count"])
		}
	})

	t.Run("forwards period filter", func(t *testing.T) {
		var captured string
		svc := &mockGoalService{
			getGoalsPageFn: func(filterPeriod string) (*services.GoalsPage, error) {
				captured = filterPeriod
				return &services.GoalsPage{Goals: []services.GoalView{}}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		doRequest(r, "GET", "/goals?filter=monthly", "")

		if captured != "monthly" {
			t.Errorf("expected monthly filter, got %q", captured)
		}
	})
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(input services.GoalInput) (*models.Goal, error) {
				return &models.Goal{
					ID:           1,
					Name:         input.Name,
					Type:         input.Type,
					TargetAmount: input.TargetAmount,
					Period:       input.Period,
				}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Emergency Fund","type":"saving","target_amount":10000,"period":"deadline"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["name"] != "Emergency Fund" {
			t.Errorf("expected Emergency Fund, got %v", goal["name"])
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Bad","type":"spending","target_amount":100,"period":"monthly"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid period", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Bad","type":"saving","target_amount":100,"period":"weekly"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on missing category", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(_ services.GoalInput) (*models.Goal, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Food Budget","type":"limit","target_amount":500,"period":"monthly","category_id":999}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestGoalHandler_UpdateGoal(t *testing.T) {
	t.Run("returns 200 and forwards only supplied fields", func(t *testing.T) {
		var captured services.GoalPatch
		svc := &mockGoalService{
			updateGoalFn: func(_ uint, patch services.GoalPatch) (*models.Goal, error) {
				captured = patch
				return &models.Goal{ID: 1}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "PUT", "/goals/1", `{"target_amount":2000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.TargetAmount == nil || *captured.TargetAmount != 2000 {
			t.Error("expected target amount patch to be forwarded")
		}
		if captured.Name != nil || captured.Type != nil {
			t.Error("expected absent fields to stay nil")
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockGoalService{
			updateGoalFn: func(_ uint, _ services.GoalPatch) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "PUT", "/goals/999", `{"name":"Renamed"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_Contribute(t *testing.T) {
	t.Run("returns 200 with updated goal", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_ uint, amount float64) (*models.Goal, error) {
				return &models.Goal{ID: 1, CurrentAmount: 400}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":150}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["current_amount"].(float64) != 400 {
			t.Errorf("expected current amount 400, got %v", goal["current_amount"])
		}
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on limit goal", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_ uint, _ float64) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotSaving
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_SAVING")
	})
}

func TestGoalHandler_DeleteGoal(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "DELETE", "/goals/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockGoalService{
			deleteGoalFn: func(_ uint) error {
				return apperrors.ErrGoalNotFound
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "DELETE", "/goals/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
