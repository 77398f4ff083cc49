package domain

import (
	"time"

	"gorm.io/gorm"
)

type Fund struct {
	ID           FundID         `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	HouseholdID  HouseholdID    `gorm:"type:uuid;index;not null" db:"household_id" json:"householdId"`
	Name         string         `gorm:"type:text;not null" db:"name" json:"name"`
	BalanceCents int64          `gorm:"not null;default:0" db:"balance_cents" json:"balanceCents"`
	CreatedAt    time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Fund) TableName() string { return "funds" }

type Deposit struct {
	ID          DepositID      `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	FundID      FundID         `gorm:"type:uuid;index;not null" db:"fund_id" json:"fundId"`
	AmountCents int64          `gorm:"not null" db:"amount_cents" json:"amountCents"`
	DepositedOn time.Time      `gorm:"not null" db:"deposited_on" json:"depositedOn"`
	CreatedAt   time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Deposit) TableName() string { return "deposits" }
