package services

import (
	"errors"
	"time"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/models"
)

// goalService handles saving and spending-limit goals.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// GetGoalsPage computes progress for every goal (optionally filtered by
// period) plus the aggregate summary cards.
func (s *goalService) GetGoalsPage(filterPeriod string) (*GoalsPage, error) {
	q := s.db.Model(&models.Goal{}).Preload("Category").Order("id")
	switch filterPeriod {
	case string(models.GoalPeriodMonthly):
		q = q.Where("period = ?", models.GoalPeriodMonthly)
	case string(models.GoalPeriodDeadline):
		q = q.Where("period = ?", models.GoalPeriodDeadline)
	}

	var goals []models.Goal
	if err := q.Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := models.DateOnly(time.Now())
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	page := &GoalsPage{Goals: make([]GoalView, 0, len(goals))}

	for i := range goals {
		goal := &goals[i]

		var progressValue float64
		switch goal.Type {
		case models.GoalTypeSaving:
			// Saving progress is the stored running total.
			progressValue = goal.CurrentAmount
			page.Summary.TotalSavedCurrent += goal.CurrentAmount
			page.Summary.TotalSavedTarget += goal.TargetAmount
			page.Summary.SavingGoalsCount++

		case models.GoalTypeLimit:
			if goal.CategoryID != nil {
				var start, end *time.Time
				if goal.Period == models.GoalPeriodMonthly {
					start, end = &firstOfMonth, &today
				}
				spent, err := s.categoryExpenseSum(*goal.CategoryID, start, end)
				if err != nil {
					return nil, err
				}
				progressValue = spent
			}

			// Deadline-period limit goals are excluded from the spend summary.
			if goal.Period == models.GoalPeriodMonthly {
				page.Summary.TotalLimitSpent += progressValue
				page.Summary.TotalLimitTarget += goal.TargetAmount
				page.Summary.LimitGoalsCount++
			}
		}

		var percentage float64
		if goal.TargetAmount > 0 {
			percentage = progressValue / goal.TargetAmount * 100
		}

		categoryName := capitalize(string(goal.Type))
		if goal.Category != nil {
			categoryName = goal.Category.Name
		}

		page.Goals = append(page.Goals, GoalView{
			ID:                 goal.ID,
			Name:               goal.Name,
			Type:               goal.Type,
			TargetAmount:       goal.TargetAmount,
			CurrentAmount:      goal.CurrentAmount,
			Period:             goal.Period,
			Deadline:           goal.Deadline,
			CategoryID:         goal.CategoryID,
			CategoryName:       categoryName,
			ProgressValue:      progressValue,
			ProgressPercentage: percentage,
		})
	}

	page.Summary.ActiveGoalsCount = len(page.Goals)
	return page, nil
}

// categoryExpenseSum sums expense transaction values for a category,
// optionally bounded by inclusive dates.
func (s *goalService) categoryExpenseSum(categoryID uint, startDate, endDate *time.Time) (float64, error) {
	q := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(value), 0)").
		Where("type = ? AND category_id = ?", models.TransactionTypeExpense, categoryID)
	if startDate != nil {
		q = q.Where("date >= ?", *startDate)
	}
	if endDate != nil {
		q = q.Where("date <= ?", *endDate)
	}

	var spent float64
	if err := q.Scan(&spent).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}

// CreateGoal creates a new goal. A supplied category must exist.
func (s *goalService) CreateGoal(input GoalInput) (*models.Goal, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if input.TargetAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must not be negative")
	}

	if input.CategoryID != nil {
		if err := s.checkCategoryExists(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	goal := &models.Goal{
		Name:          input.Name,
		Type:          input.Type,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Period:        input.Period,
		Deadline:      input.Deadline,
		CategoryID:    input.CategoryID,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// UpdateGoal applies a partial update. Only supplied fields are modified;
// a supplied category must exist.
func (s *goalService) UpdateGoal(goalID uint, patch GoalPatch) (*models.Goal, error) {
	goal, err := s.getGoal(goalID)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		if err := s.checkCategoryExists(*patch.CategoryID); err != nil {
			return nil, err
		}
		goal.CategoryID = patch.CategoryID
	}

	if patch.Name != nil {
		goal.Name = *patch.Name
	}
	if patch.Type != nil {
		goal.Type = *patch.Type
	}
	if patch.TargetAmount != nil {
		if *patch.TargetAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must not be negative")
		}
		goal.TargetAmount = *patch.TargetAmount
	}
	if patch.CurrentAmount != nil {
		goal.CurrentAmount = *patch.CurrentAmount
	}
	if patch.Period != nil {
		goal.Period = *patch.Period
	}
	if patch.Deadline != nil {
		goal.Deadline = patch.Deadline
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal removes a goal by ID.
func (s *goalService) DeleteGoal(goalID uint) error {
	goal, err := s.getGoal(goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute atomically adds amount to a saving goal's running total.
// There is no upper clamp: over-saving past the target is allowed.
func (s *goalService) Contribute(goalID uint, amount float64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be greater than zero")
	}

	goal, err := s.getGoal(goalID)
	if err != nil {
		return nil, err
	}
	if goal.Type != models.GoalTypeSaving {
		return nil, apperrors.ErrGoalNotSaving
	}

	// Increment in SQL so concurrent contributions don't lose updates.
	if err := s.db.Model(goal).
		Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.getGoal(goalID)
}

func (s *goalService) getGoal(goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.First(&goal, goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

func (s *goalService) checkCategoryExists(categoryID uint) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// capitalize upper-cases the first rune, used for the category-name
// fallback shown on goal cards without a linked category.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
