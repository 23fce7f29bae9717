package models

// Category represents a transaction category. Keywords is an optional
// semicolon- or comma-separated list of substrings used for auto-tagging.
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null;uniqueIndex" json:"name"`
	Keywords string `json:"keywords,omitempty"`
	ParentID *uint  `json:"parent_id,omitempty"`

	// Relationships
	Parent       *Category     `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Goals        []Goal        `gorm:"foreignKey:CategoryID" json:"goals,omitempty"`
}
