package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Records is the plain CRUD surface shared by the uuid-keyed budgeting
// entities. Soft-deleted rows are invisible to Get.
type Records[T any] struct{ db *gorm.DB }

func (r Records[T]) Create(ctx context.Context, v *T) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r Records[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// Save writes every column of v back to its live row.
func (r Records[T]) Save(ctx context.Context, v *T) error {
	res := r.db.WithContext(ctx).Model(v).Select("*").Updates(v)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeletedAt is the soft-delete stamp for at, cut to the microsecond precision
// Postgres keeps so the change log holds the stored value.
func DeletedAt(at time.Time) gorm.DeletedAt {
	return gorm.DeletedAt{Time: at.UTC().Truncate(time.Microsecond), Valid: true}
}

// SoftDelete stamps deleted_at on v, both in the database and in memory, so
// the caller can diff the instance afterwards.
func (r Records[T]) SoftDelete(ctx context.Context, v *T, at time.Time) error {
	res := r.db.WithContext(ctx).Model(v).Update("deleted_at", DeletedAt(at))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Lookup loads a row by id, soft-deleted rows included.
func Lookup[T any](ctx context.Context, s *Store, id uuid.UUID) (*T, error) {
	var out T
	if err := s.DB.WithContext(ctx).Unscoped().First(&out, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// Where returns live rows matching the condition, oldest first.
func (r Records[T]) Where(ctx context.Context, query string, args ...any) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}
