package domain

import (
	"time"

	"gorm.io/gorm"
)

type Household struct {
	ID        HouseholdID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Name      string         `gorm:"type:text;not null" db:"name" json:"name"`
	CreatedAt time.Time      `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" db:"updated_at" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" db:"deleted_at" json:"-"`
}

func (Household) TableName() string { return "households" }

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// HouseholdMember links a user to a household. Rows are removed outright
// rather than soft-deleted.
type HouseholdMember struct {
	ID          MemberID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	HouseholdID HouseholdID `gorm:"type:uuid;uniqueIndex:ux_member_household_user;not null" db:"household_id" json:"householdId"`
	UserID      UserID      `gorm:"type:uuid;uniqueIndex:ux_member_household_user;not null" db:"user_id" json:"userId"`
	Role        string      `gorm:"type:text;not null" db:"role" json:"role"`
	CreatedAt   time.Time   `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (HouseholdMember) TableName() string { return "household_members" }
