package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/models"
	"finpanel/internal/pagination"
)

// transactionService handles the transaction ledger.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		categoryService: categoryService,
	}
}

// CreateQuickEntry saves a minimal-field manual transaction. The date
// defaults to today and the category is auto-resolved from the explicit
// name or the description keywords.
func (s *transactionService) CreateQuickEntry(entry QuickEntry) (*models.Transaction, error) {
	if entry.Value < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value must not be negative")
	}

	txType := models.TransactionType(strings.ToLower(strings.TrimSpace(string(entry.Type))))
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	date := time.Now()
	if entry.Date != nil {
		date = *entry.Date
	}

	description := strings.TrimSpace(entry.Description)

	category, err := s.categoryService.Match(description, entry.CategoryName)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		Date:        models.DateOnly(date),
		Description: description,
		Value:       entry.Value,
		Type:        txType,
		Account:     entry.Account,
	}
	if category != nil {
		transaction.CategoryID = &category.ID
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// filtered builds a fresh query joining transactions with category names
// and applying the list filters. Each caller gets its own statement.
func (s *transactionService) filtered(filter TransactionFilter) *gorm.DB {
	q := s.db.Model(&models.Transaction{}).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id")

	if filter.Type != nil {
		q = q.Where("transactions.type = ?", *filter.Type)
	}

	if filter.MonthYear != "" {
		if start, err := time.Parse("2006-01", filter.MonthYear); err == nil {
			monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
			q = q.Where("transactions.date >= ? AND transactions.date < ?",
				monthStart, monthStart.AddDate(0, 1, 0))
		}
		// Malformed month filters are ignored.
	}

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(transactions.description) LIKE ? OR LOWER(categories.name) LIKE ?", term, term)
	}

	return q
}

const transactionDetailColumns = "transactions.id, transactions.date, transactions.description, " +
	"transactions.value, transactions.type, categories.name AS category_name"

// ListTransactions returns a page of transactions (newest first) plus a
// summary aggregated over the whole filtered set, not just the page.
func (s *transactionService) ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*TransactionPage, error) {
	page.Defaults()

	var totalItems int64
	if err := s.filtered(filter).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var details []TransactionDetail
	if err := s.filtered(filter).
		Select(transactionDetailColumns).
		Order("transactions.date DESC, transactions.id DESC").
		Scopes(pagination.Paginate(page)).
		Scan(&details).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sums struct {
		TotalIncome     float64
		TotalExpense    float64
		TotalInvestment float64
	}
	if err := s.filtered(filter).
		Select("COALESCE(SUM(CASE WHEN transactions.type = 'income' THEN transactions.value ELSE 0 END), 0) AS total_income, " +
			"COALESCE(SUM(CASE WHEN transactions.type = 'expense' THEN transactions.value ELSE 0 END), 0) AS total_expense, " +
			"COALESCE(SUM(CASE WHEN transactions.type = 'investment' THEN transactions.value ELSE 0 END), 0) AS total_investment").
		Scan(&sums).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &TransactionPage{
		Transactions: pagination.NewPageResponse(details, page.Page, page.PageSize, totalItems),
		Summary: TransactionSummary{
			TotalIncome:     sums.TotalIncome,
			TotalExpense:    sums.TotalExpense,
			TotalInvestment: sums.TotalInvestment,
			Balance:         sums.TotalIncome - sums.TotalExpense,
		},
	}, nil
}

// GetRecentTransactions returns the most recent transactions with category
// names, optionally bounded by inclusive dates.
func (s *transactionService) GetRecentTransactions(startDate, endDate *time.Time, limit int) ([]TransactionDetail, error) {
	q := s.db.Model(&models.Transaction{}).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Select(transactionDetailColumns)

	if startDate != nil {
		q = q.Where("transactions.date >= ?", models.DateOnly(*startDate))
	}
	if endDate != nil {
		q = q.Where("transactions.date <= ?", models.DateOnly(*endDate))
	}

	var details []TransactionDetail
	if err := q.Order("transactions.date DESC, transactions.id DESC").
		Limit(limit).
		Scan(&details).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return details, nil
}

// UpdateTransaction applies a partial update. Only supplied fields are
// modified; a supplied category name re-resolves the category reference
// through exact-then-keyword matching and may clear it.
func (s *transactionService) UpdateTransaction(transactionID uint, patch TransactionPatch) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if patch.CategoryName != nil {
		description := transaction.Description
		if patch.Description != nil {
			description = *patch.Description
		}
		category, err := s.categoryService.Match(description, *patch.CategoryName)
		if err != nil {
			return nil, err
		}
		if category != nil {
			transaction.CategoryID = &category.ID
		} else {
			transaction.CategoryID = nil
		}
	}

	if patch.Description != nil {
		transaction.Description = *patch.Description
	}
	if patch.Value != nil {
		if *patch.Value < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value must not be negative")
		}
		transaction.Value = *patch.Value
	}
	if patch.Type != nil {
		txType := models.TransactionType(strings.ToLower(strings.TrimSpace(string(*patch.Type))))
		if !txType.Valid() {
			return nil, apperrors.ErrInvalidTransactionType
		}
		transaction.Type = txType
	}
	if patch.Date != nil {
		transaction.Date = models.DateOnly(*patch.Date)
	}

	if err := s.db.Save(&transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *transactionService) DeleteTransaction(transactionID uint) error {
	var transaction models.Transaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAvailableMonths returns the distinct "YYYY-MM" strings that have
// transactions, newest first. The distinct dates are folded in Go so the
// query stays portable between PostgreSQL and the SQLite test store.
func (s *transactionService) GetAvailableMonths() ([]string, error) {
	var dates []time.Time
	if err := s.db.Model(&models.Transaction{}).
		Distinct("date").
		Pluck("date", &dates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	seen := make(map[string]bool, len(dates))
	months := make([]string, 0, len(dates))
	for _, d := range dates {
		m := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

// GetUncategorizedCount counts transactions with no category reference.
func (s *transactionService) GetUncategorizedCount() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id IS NULL").
		Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
