package domain

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          CategoryID     `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	HouseholdID HouseholdID    `gorm:"type:uuid;index;not null" db:"household_id" json:"householdId"`
	Name        string         `gorm:"type:text;not null" db:"name" json:"name"`
	CreatedAt   time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Category) TableName() string { return "categories" }

type Subcategory struct {
	ID         SubcategoryID  `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	CategoryID CategoryID     `gorm:"type:uuid;index;not null" db:"category_id" json:"categoryId"`
	Name       string         `gorm:"type:text;not null" db:"name" json:"name"`
	CreatedAt  time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Subcategory) TableName() string { return "subcategories" }
