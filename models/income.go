package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts are serialized as JSON numbers, matching the HTTP API contract
	decimal.MarshalJSONWithoutQuotes = true
}

// Income is a single income transaction owned by one user. Records are
// immutable once created except via delete.
type Income struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"-"`
	UserID    uint            `gorm:"index;not null" json:"userId"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Source    string          `gorm:"size:255;not null" json:"source"`
	Icon      string          `gorm:"size:255" json:"icon,omitempty"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Date      time.Time       `gorm:"index;not null" json:"date"`
}
