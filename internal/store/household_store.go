package store

import (
	"context"

	"budget/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) Households() Records[domain.Household] { return Records[domain.Household]{db: s.DB} }

type MemberStore struct{ db *gorm.DB }

func (s *Store) Members() *MemberStore { return &MemberStore{db: s.DB} }

func (m *MemberStore) Create(ctx context.Context, member *domain.HouseholdMember) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	return translate(m.db.WithContext(ctx).Create(member).Error)
}

func (m *MemberStore) Get(ctx context.Context, householdID, memberID uuid.UUID) (*domain.HouseholdMember, error) {
	var out domain.HouseholdMember
	err := m.db.WithContext(ctx).First(&out, "id = ? AND household_id = ?", memberID, householdID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// Find returns the membership of userID in householdID.
func (m *MemberStore) Find(ctx context.Context, householdID, userID uuid.UUID) (*domain.HouseholdMember, error) {
	var out domain.HouseholdMember
	err := m.db.WithContext(ctx).First(&out, "household_id = ? AND user_id = ?", householdID, userID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (m *MemberStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.HouseholdMember, error) {
	var out []domain.HouseholdMember
	if err := m.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (m *MemberStore) Count(ctx context.Context, householdID uuid.UUID) (int64, error) {
	var total int64
	err := m.db.WithContext(ctx).Model(&domain.HouseholdMember{}).Where("household_id = ?", householdID).Count(&total).Error
	return total, translate(err)
}

func (m *MemberStore) Delete(ctx context.Context, member *domain.HouseholdMember) error {
	res := m.db.WithContext(ctx).Delete(member)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
