package domain

import (
	"time"

	"gorm.io/gorm"
)

// Budget is the planned spend for one subcategory in one month. Month is
// normalised to the first day of the month, UTC.
type Budget struct {
	ID            BudgetID       `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	SubcategoryID SubcategoryID  `gorm:"type:uuid;index;not null" db:"subcategory_id" json:"subcategoryId"`
	Month         time.Time      `gorm:"not null" db:"month" json:"month"`
	AmountCents   int64          `gorm:"not null" db:"amount_cents" json:"amountCents"`
	CreatedAt     time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Budget) TableName() string { return "budgets" }

func FirstOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
