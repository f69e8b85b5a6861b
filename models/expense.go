package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single expense transaction owned by one user.
// ReceiptPath points at an attached receipt image under the uploads dir, if any.
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"-"`
	UserID      uint            `gorm:"index;not null" json:"userId"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category    string          `gorm:"size:255;not null" json:"category"`
	Icon        string          `gorm:"size:255" json:"icon,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	ReceiptPath string          `gorm:"size:512" json:"receiptUrl,omitempty"`
}
