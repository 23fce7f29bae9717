package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeInvestment TransactionType = "investment"
)

// Valid reports whether t is one of the three supported transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeInvestment:
		return true
	}
	return false
}

// Transaction represents a financial movement. Value is always stored as a
// positive magnitude; sign semantics derive from Type.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `json:"description"`
	Value       float64         `gorm:"not null" json:"value"`
	Type        TransactionType `gorm:"not null" json:"type"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Account     *string         `json:"account,omitempty"`
	IsFixed     bool            `gorm:"default:false" json:"is_fixed"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// DateOnly truncates t to midnight UTC. All transaction dates are stored
// this way so the import duplicate check can compare dates by equality.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
