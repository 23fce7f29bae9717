package services

import (
	"time"

	"gorm.io/gorm"

	"finpanel/internal/models"
	"finpanel/internal/pagination"
)

// CategoryServicer defines the contract for category-related business logic,
// including keyword-based auto-tagging.
type CategoryServicer interface {
	CreateCategory(name, keywords string, parentID *uint) (*models.Category, error)
	GetCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	DeleteCategory(categoryID uint) error

	// Match resolves a description to a category: exact name lookup when
	// explicitName is non-empty, keyword scan otherwise. (nil, nil) means
	// no match. MatchWith is the same resolution bound to a caller-supplied
	// session, for callers that hold an open transaction.
	Match(description, explicitName string) (*models.Category, error)
	MatchWith(db *gorm.DB, description, explicitName string) (*models.Category, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Search    string
	Type      *models.TransactionType
	MonthYear string // "YYYY-MM"; malformed values are ignored
}

// TransactionDetail is a transaction row joined with its category name.
type TransactionDetail struct {
	ID           uint                   `json:"id"`
	Date         time.Time              `json:"date"`
	Description  string                 `json:"description"`
	Value        float64                `json:"value"`
	Type         models.TransactionType `json:"type"`
	CategoryName *string                `json:"category_name,omitempty"`
}

// TransactionSummary aggregates the full filtered transaction set.
type TransactionSummary struct {
	TotalIncome     float64 `json:"total_income"`
	TotalExpense    float64 `json:"total_expense"`
	TotalInvestment float64 `json:"total_investment"`
	Balance         float64 `json:"balance"`
}

// TransactionPage combines a page of transactions with the summary over the
// whole filtered set.
type TransactionPage struct {
	Transactions pagination.PageResponse[TransactionDetail] `json:"transactions"`
	Summary      TransactionSummary                         `json:"summary"`
}

// QuickEntry is a minimal-field transaction creation payload.
type QuickEntry struct {
	Description  string
	Value        float64
	Type         models.TransactionType
	CategoryName string
	Date         *time.Time
	Account      *string
}

// TransactionPatch carries partial-update fields. A nil pointer means the
// field was absent from the request and must not be modified.
type TransactionPatch struct {
	Description  *string
	Value        *float64
	Type         *models.TransactionType
	Date         *time.Time
	CategoryName *string
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	CreateQuickEntry(entry QuickEntry) (*models.Transaction, error)
	ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*TransactionPage, error)
	GetRecentTransactions(startDate, endDate *time.Time, limit int) ([]TransactionDetail, error)
	UpdateTransaction(transactionID uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(transactionID uint) error
	GetAvailableMonths() ([]string, error)
	GetUncategorizedCount() (int64, error)
}

// DashboardKPIs holds period totals and period-over-period deltas.
type DashboardKPIs struct {
	TotalIncome                float64 `json:"total_income"`
	TotalExpense               float64 `json:"total_expense"`
	TotalInvestment            float64 `json:"total_investment"`
	Balance                    float64 `json:"balance"`
	IncomeChangePercentage     float64 `json:"income_change_percentage"`
	ExpenseChangePercentage    float64 `json:"expense_change_percentage"`
	InvestmentChangePercentage float64 `json:"investment_change_percentage"`
	BalanceChangePercentage    float64 `json:"balance_change_percentage"`
}

// CategoryExpense is one slice of the expenses-by-category chart.
type CategoryExpense struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// BalancePoint is one day of the balance-over-time series. Balance carries
// the running total across the whole series.
type BalancePoint struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// DashboardServicer defines the contract for dashboard aggregation.
type DashboardServicer interface {
	GetKPIs(startDate, endDate *time.Time) (*DashboardKPIs, error)
	GetExpensesByCategory(startDate, endDate *time.Time) ([]CategoryExpense, error)
	GetReportExpensesByCategory(startDate, endDate *time.Time) ([]CategoryExpense, error)
	GetBalanceOverTime(startDate, endDate *time.Time) ([]BalancePoint, error)
}

// GoalView is a goal with its computed progress.
type GoalView struct {
	ID                 uint              `json:"id"`
	Name               string            `json:"name"`
	Type               models.GoalType   `json:"type"`
	TargetAmount       float64           `json:"target_amount"`
	CurrentAmount      float64           `json:"current_amount"`
	Period             models.GoalPeriod `json:"period"`
	Deadline           *time.Time        `json:"deadline,omitempty"`
	CategoryID         *uint             `json:"category_id,omitempty"`
	CategoryName       string            `json:"category_name"`
	ProgressValue      float64           `json:"progress_value"`
	ProgressPercentage float64           `json:"progress_percentage"`
}

// GoalsSummary accumulates across all goals in a page result. Deadline-period
// limit goals are excluded from the limit totals.
type GoalsSummary struct {
	TotalSavedCurrent float64 `json:"total_saved_current"`
	TotalSavedTarget  float64 `json:"total_saved_target"`
	TotalLimitSpent   float64 `json:"total_limit_spent"`
	TotalLimitTarget  float64 `json:"total_limit_target"`
	ActiveGoalsCount  int     `json:"active_goals_count"`
	SavingGoalsCount  int     `json:"saving_goals_count"`
	LimitGoalsCount   int     `json:"limit_goals_count"`
}

// GoalsPage is the full goals listing with its aggregate summary.
type GoalsPage struct {
	Summary GoalsSummary `json:"summary"`
	Goals   []GoalView   `json:"goals"`
}

// GoalInput carries the fields for creating a goal.
type GoalInput struct {
	Name          string
	Type          models.GoalType
	TargetAmount  float64
	CurrentAmount float64
	Period        models.GoalPeriod
	Deadline      *time.Time
	CategoryID    *uint
}

// GoalPatch carries partial-update fields for a goal. A nil pointer means
// the field was absent from the request and must not be modified.
type GoalPatch struct {
	Name          *string
	Type          *models.GoalType
	TargetAmount  *float64
	CurrentAmount *float64
	Period        *models.GoalPeriod
	Deadline      *time.Time
	CategoryID    *uint
}

// GoalServicer defines the contract for goal tracking.
type GoalServicer interface {
	GetGoalsPage(filterPeriod string) (*GoalsPage, error)
	CreateGoal(input GoalInput) (*models.Goal, error)
	UpdateGoal(goalID uint, patch GoalPatch) (*models.Goal, error)
	DeleteGoal(goalID uint) error
	Contribute(goalID uint, amount float64) (*models.Goal, error)
}

// ImportResult summarizes one completed import call.
type ImportResult struct {
	FileName     string `json:"file_name"`
	RowsImported int    `json:"rows_imported"`
	RowsSkipped  int    `json:"rows_skipped"`
}

// ImportServicer defines the contract for the bulk import reconciler.
type ImportServicer interface {
	ImportFile(content []byte, fileName string) (*ImportResult, error)
}
