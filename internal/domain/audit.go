package domain

import (
	"time"

	"gorm.io/gorm"
)

// AuditCall identifies one inbound API request. UserID is nil only for
// pre-authentication flows such as sign-up.
type AuditCall struct {
	ID         AuditCallID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	UserID     *UserID     `gorm:"type:uuid;index" db:"user_id" json:"userId,omitempty"`
	HTTPMethod string      `gorm:"type:text;not null" db:"http_method" json:"httpMethod"`
	Route      string      `gorm:"type:text;not null" db:"route" json:"route"`
	IPAddress  string      `gorm:"type:text" db:"ip_address" json:"ipAddress"`
	UserAgent  string      `gorm:"type:text" db:"user_agent" json:"userAgent"`
	RequestID  string      `gorm:"type:text" db:"request_id" json:"requestId,omitempty"`
	CreatedAt  time.Time   `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (AuditCall) TableName() string { return "audit_calls" }

func (*AuditCall) BeforeUpdate(*gorm.DB) error { return ErrAppendOnly }
func (*AuditCall) BeforeDelete(*gorm.DB) error { return ErrAppendOnly }

// Change is one attribute transition on one entity. A nil OldValue marks a
// creation, a nil NewValue a deletion.
type Change struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	AuditCallID AuditCallID `gorm:"type:uuid;index;not null" db:"audit_call_id" json:"auditCallId"`
	Table       string      `gorm:"column:table_name;type:text;not null;index:ix_changes_entity" db:"table_name" json:"table"`
	Key         string      `gorm:"column:entity_key;type:text;not null;index:ix_changes_entity" db:"entity_key" json:"key"`
	Attribute   string      `gorm:"type:text;not null" db:"attribute" json:"attribute"`
	OldValue    *string     `gorm:"type:text" db:"old_value" json:"oldValue"`
	NewValue    *string     `gorm:"type:text" db:"new_value" json:"newValue"`
	CreatedAt   time.Time   `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (Change) TableName() string { return "changes" }

func (*Change) BeforeUpdate(*gorm.DB) error { return ErrAppendOnly }
func (*Change) BeforeDelete(*gorm.DB) error { return ErrAppendOnly }

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&User{}, &PasswordCredential{},
		&Household{}, &HouseholdMember{},
		&Category{}, &Subcategory{}, &Budget{},
		&Vendor{}, &Expense{},
		&Fund{}, &Deposit{},
		&AuditCall{}, &Change{},
	}
}

// AuditedModels lists the types whose mutations are recorded as Changes.
func AuditedModels() []any {
	return []any{
		&User{}, &PasswordCredential{},
		&Household{}, &HouseholdMember{},
		&Category{}, &Subcategory{}, &Budget{},
		&Vendor{}, &Expense{},
		&Fund{}, &Deposit{},
	}
}
