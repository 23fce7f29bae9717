package models

import "time"

// GoalType represents the kind of goal being tracked.
type GoalType string

const (
	// GoalTypeSaving accumulates an explicitly stored running total.
	GoalTypeSaving GoalType = "saving"
	// GoalTypeLimit is a spending cap tracked against expense transactions.
	GoalTypeLimit GoalType = "limit"
)

// GoalPeriod represents a goal's recurrence/scope mode.
type GoalPeriod string

const (
	GoalPeriodMonthly  GoalPeriod = "monthly"
	GoalPeriodDeadline GoalPeriod = "deadline"
)

// Goal represents a savings or spending-limit goal. CurrentAmount is only
// meaningful for saving goals; limit progress is derived from transactions.
type Goal struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Type          GoalType   `gorm:"not null;default:saving" json:"type"`
	TargetAmount  float64    `gorm:"not null;default:0" json:"target_amount"`
	CurrentAmount float64    `gorm:"not null;default:0" json:"current_amount"`
	Period        GoalPeriod `gorm:"not null;default:deadline" json:"period"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CategoryID    *uint      `json:"category_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
