package audit

import (
	"context"

	"budget/internal/domain"
	"budget/internal/store"

	"gorm.io/gorm"
)

const appendBatchSize = 200

// ChangeLog is the read side of the change store. Writes go exclusively
// through Tracker.TrackChanges.
type ChangeLog struct{ db *gorm.DB }

func Changes(st *store.Store) *ChangeLog { return &ChangeLog{db: st.DB} }

// FindByAuditCall returns the rows written under one audit call, in insertion order.
func (c *ChangeLog) FindByAuditCall(ctx context.Context, id domain.AuditCallID) ([]domain.Change, error) {
	var out []domain.Change
	err := c.db.WithContext(ctx).Where("audit_call_id = ?", id).Order("id").Find(&out).Error
	return out, err
}

// FindByEntityKey returns the history of one entity, oldest first.
func (c *ChangeLog) FindByEntityKey(ctx context.Context, table, key string) ([]domain.Change, error) {
	var out []domain.Change
	err := c.db.WithContext(ctx).Where("table_name = ? AND entity_key = ?", table, key).Order("id").Find(&out).Error
	return out, err
}

// appendChanges bulk-inserts rows on db, which must be the caller's
// transaction.
func appendChanges(ctx context.Context, db *gorm.DB, changes []domain.Change) error {
	if len(changes) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(changes, appendBatchSize).Error
}
