package models

import "time"

// ImportLog is an append-only audit record, one per completed import call.
type ImportLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FileName     string    `json:"file_name"`
	RowsImported int       `json:"rows_imported"`
	ImportedAt   time.Time `gorm:"autoCreateTime" json:"imported_at"`
}
