package domain

import (
	"time"

	"gorm.io/gorm"
)

type Vendor struct {
	ID          VendorID       `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	HouseholdID HouseholdID    `gorm:"type:uuid;index;not null" db:"household_id" json:"householdId"`
	Name        string         `gorm:"type:text;not null" db:"name" json:"name"`
	CreatedAt   time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Vendor) TableName() string { return "vendors" }

type Expense struct {
	ID            ExpenseID      `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	HouseholdID   HouseholdID    `gorm:"type:uuid;index;not null" db:"household_id" json:"householdId"`
	SubcategoryID *SubcategoryID `gorm:"type:uuid;index" db:"subcategory_id" json:"subcategoryId,omitempty"`
	VendorID      *VendorID      `gorm:"type:uuid;index" db:"vendor_id" json:"vendorId,omitempty"`
	SpentOn       time.Time      `gorm:"not null" db:"spent_on" json:"spentOn"`
	AmountCents   int64          `gorm:"not null" db:"amount_cents" json:"amountCents"`
	Memo          *string        `gorm:"type:text" db:"memo" json:"memo,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Expense) TableName() string { return "expenses" }
