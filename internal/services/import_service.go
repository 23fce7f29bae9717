package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/logger"
	"finpanel/internal/models"
	"finpanel/internal/spreadsheet"
)

// requiredColumns are the canonical columns an import file must carry after
// header normalization.
var requiredColumns = []string{"date", "description", "value", "type"}

// importService reconciles spreadsheet files into the transaction ledger.
type importService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewImportService creates a new ImportServicer.
func NewImportService(db *gorm.DB, categoryService CategoryServicer) ImportServicer {
	return &importService{
		db:              db,
		categoryService: categoryService,
	}
}

// ImportFile parses a CSV/XLSX file, normalizes and deduplicates its rows,
// and persists the new transactions plus one ImportLog record in a single
// database transaction. Rows that fail to parse are skipped silently and
// counted in neither total; rows matching an existing (date, description,
// value, type) tuple are counted as skipped.
func (s *importService) ImportFile(content []byte, fileName string) (*ImportResult, error) {
	result := &ImportResult{FileName: fileName}

	table, err := spreadsheet.Parse(fileName, content)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrEmpty) {
			// An empty file imports nothing, but that is not an error.
			return result, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrUnsupportedFile, err)
	}

	if !table.HasColumns(requiredColumns...) {
		return nil, apperrors.ErrMissingColumns
	}

	log := logger.Get()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range table.Rows {
			parsed, ok := parseImportRow(row)
			if !ok {
				log.Debugw("skipping import row with invalid data",
					"file", fileName, "row", i+1)
				continue
			}

			// Exact-tuple duplicate check against existing records.
			var count int64
			if err := tx.Model(&models.Transaction{}).
				Where("date = ? AND description = ? AND value = ? AND type = ?",
					parsed.Date, parsed.Description, parsed.Value, parsed.Type).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				result.RowsSkipped++
				continue
			}

			// Resolution reads on tx so the whole import, category lookups
			// included, runs on one session.
			category, err := s.categoryService.MatchWith(tx, parsed.Description, row["category_name"])
			if err != nil {
				return err
			}
			if category != nil {
				parsed.CategoryID = &category.ID
			}

			if err := tx.Create(parsed).Error; err != nil {
				return err
			}
			result.RowsImported++
		}

		// The log row commits together with the staged transactions; a
		// failure here rolls back the whole import.
		return tx.Create(&models.ImportLog{
			FileName:     fileName,
			RowsImported: result.RowsImported,
		}).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	return result, nil
}

// parseImportRow normalizes one data row. ok is false when any required
// field fails to parse; such rows are dropped without affecting the counts.
func parseImportRow(row spreadsheet.Row) (*models.Transaction, bool) {
	date, err := spreadsheet.ParseDate(row["date"])
	if err != nil {
		return nil, false
	}

	value, err := spreadsheet.ParseValue(row["value"])
	if err != nil {
		return nil, false
	}

	description := strings.TrimSpace(row["description"])
	txType := strings.ToLower(strings.TrimSpace(row["type"]))
	if txType == "" {
		return nil, false
	}

	transaction := &models.Transaction{
		Date:        date,
		Description: description,
		Value:       value,
		Type:        models.TransactionType(txType),
	}
	if account := strings.TrimSpace(row["account"]); account != "" {
		transaction.Account = &account
	}
	return transaction, true
}
