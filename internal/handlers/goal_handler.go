package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/models"
	"finpanel/internal/services"
)

// GoalHandler handles goal tracking requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=100"`
	Type          string     `json:"type" binding:"required,goal_type"`
	TargetAmount  float64    `json:"target_amount" binding:"gte=0"`
	CurrentAmount float64    `json:"current_amount" binding:"gte=0"`
	Period        string     `json:"period" binding:"required,goal_period"`
	Deadline      *time.Time `json:"deadline"`
	CategoryID    *uint      `json:"category_id"`
}

// UpdateGoalRequest carries partial-update fields for a goal.
type UpdateGoalRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Type          *string    `json:"type" binding:"omitempty,goal_type"`
	TargetAmount  *float64   `json:"target_amount" binding:"omitempty,gte=0"`
	CurrentAmount *float64   `json:"current_amount" binding:"omitempty,gte=0"`
	Period        *string    `json:"period" binding:"omitempty,goal_period"`
	Deadline      *time.Time `json:"deadline"`
	CategoryID    *uint      `json:"category_id"`
}

// ContributeRequest represents a contribution to a saving goal.
type ContributeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// GetGoalsPage handles the goals page with computed progress and summary.
// @Summary     Goals page
// @Description Get all goals with computed progress plus the aggregate summary
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       filter query string false "Filter by period (monthly/deadline)"
// @Success     200 {object} services.GoalsPage "Goals and summary"
// @Router      /goals [get]
func (h *GoalHandler) GetGoalsPage(c *gin.Context) {
	page, err := h.goalService.GetGoalsPage(c.Query("filter"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// CreateGoal handles the creation of a new goal.
// @Summary     Create goal
// @Description Create a saving or limit goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoal(services.GoalInput{
		Name:          req.Name,
		Type:          models.GoalType(req.Type),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Period:        models.GoalPeriod(req.Period),
		Deadline:      req.Deadline,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// UpdateGoal handles partial updates of a goal.
// @Summary     Update goal
// @Description Update only the supplied fields of a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       id path int true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to update"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal or category not found"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.GoalPatch{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		CategoryID:    req.CategoryID,
	}
	if req.Type != nil {
		goalType := models.GoalType(*req.Type)
		patch.Type = &goalType
	}
	if req.Period != nil {
		period := models.GoalPeriod(*req.Period)
		patch.Period = &period
	}

	goal, err := h.goalService.UpdateGoal(goalID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles deleting a goal by ID.
// @Summary     Delete goal
// @Description Delete a goal by ID
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       id path int true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

// Contribute handles adding an amount to a saving goal.
// @Summary     Contribute to goal
// @Description Atomically add an amount to a saving goal's running total
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       id path int true "Goal ID"
// @Param       request body ContributeRequest true "Contribution amount"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input or non-saving goal"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.Contribute(goalID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}
