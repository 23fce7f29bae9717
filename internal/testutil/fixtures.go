package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finpanel/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with a unique name and no keywords.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithKeywords(t, db, "")
}

// CreateTestCategoryWithKeywords creates a category with the given keywords field.
func CreateTestCategoryWithKeywords(t *testing.T, db *gorm.DB, keywords string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Keywords: keywords,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type, value, and date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, txType models.TransactionType, value float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Date:        models.DateOnly(date),
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Value:       value,
		Type:        txType,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestCategorizedTransaction creates a transaction linked to a category.
func CreateTestCategorizedTransaction(t *testing.T, db *gorm.DB, categoryID uint, txType models.TransactionType, value float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Date:        models.DateOnly(date),
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Value:       value,
		Type:        txType,
		CategoryID:  &categoryID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestSavingGoal creates a saving goal with the given target and current amounts.
func CreateTestSavingGoal(t *testing.T, db *gorm.DB, target, current float64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		Name:          fmt.Sprintf("Test Saving Goal %d", nextID()),
		Type:          models.GoalTypeSaving,
		TargetAmount:  target,
		CurrentAmount: current,
		Period:        models.GoalPeriodDeadline,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test saving goal: %v", err)
	}
	return goal
}

// CreateTestLimitGoal creates a limit goal for a category with the given period.
func CreateTestLimitGoal(t *testing.T, db *gorm.DB, categoryID *uint, target float64, period models.GoalPeriod) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		Name:         fmt.Sprintf("Test Limit Goal %d", nextID()),
		Type:         models.GoalTypeLimit,
		TargetAmount: target,
		Period:       period,
		CategoryID:   categoryID,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test limit goal: %v", err)
	}
	return goal
}
