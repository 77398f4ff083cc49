package impl

import (
	"context"
	"time"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/dto"
	"budget/internal/store"

	"github.com/google/uuid"
)

type BudgetServiceImpl struct{ unitOfWork }

func NewBudgetServiceImpl(st *store.Store, tracker *audit.Tracker) *BudgetServiceImpl {
	return &BudgetServiceImpl{newUnitOfWork(st, tracker)}
}

func (s *BudgetServiceImpl) Create(ctx context.Context, callID domain.AuditCallID, subcategoryID domain.SubcategoryID, r dto.BudgetRequest) (*domain.Budget, error) {
	month, err := parseMonth(r.Month)
	if err != nil {
		return nil, err
	}
	if r.AmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	var out *domain.Budget
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := subcategoryFor(ctx, tx, subcategoryID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		b := &domain.Budget{ID: uuid.New(), SubcategoryID: subcategoryID, Month: month, AmountCents: r.AmountCents}
		if err := tx.Budgets().Create(ctx, b); err != nil {
			return audit.MutationSet{}, err
		}
		out = b
		return audit.MutationSet{Created: []any{b}}, nil
	})
	return out, err
}

// Update applies the set fields of p. Unchanged values produce no change
// rows.
func (s *BudgetServiceImpl) Update(ctx context.Context, callID domain.AuditCallID, id domain.BudgetID, p dto.BudgetPatch) (*domain.Budget, error) {
	var month *time.Time
	if p.Month != nil {
		m, err := parseMonth(*p.Month)
		if err != nil {
			return nil, err
		}
		month = &m
	}
	if p.AmountCents != nil && *p.AmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var out *domain.Budget
	err := s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		b, err := budgetFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(b)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if month != nil {
			b.Month = *month
		}
		if p.AmountCents != nil {
			b.AmountCents = *p.AmountCents
		}
		if err := tx.Budgets().Save(ctx, b); err != nil {
			return audit.MutationSet{}, err
		}
		out = b
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: b}}}, nil
	})
	return out, err
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, callID domain.AuditCallID, id domain.BudgetID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		b, err := budgetFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(b)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Budgets().SoftDelete(ctx, b, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: b}}}, nil
	})
}

func budgetFor(ctx context.Context, tx *store.Store, id domain.BudgetID, actor *domain.User) (*domain.Budget, error) {
	b, err := tx.Budgets().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := subcategoryFor(ctx, tx, b.SubcategoryID, actor); err != nil {
		return nil, err
	}
	return b, nil
}
