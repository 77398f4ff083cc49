package impl

import (
	"context"
	"strings"
	"time"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/dto"
	"budget/internal/store"

	"github.com/google/uuid"
)

type ExpenseServiceImpl struct{ unitOfWork }

func NewExpenseServiceImpl(st *store.Store, tracker *audit.Tracker) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{newUnitOfWork(st, tracker)}
}

func (s *ExpenseServiceImpl) CreateVendor(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.NameRequest) (*domain.Vendor, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Vendor
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := requireMember(ctx, tx, householdID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		v := &domain.Vendor{ID: uuid.New(), HouseholdID: householdID, Name: name}
		if err := tx.Vendors().Create(ctx, v); err != nil {
			return audit.MutationSet{}, err
		}
		out = v
		return audit.MutationSet{Created: []any{v}}, nil
	})
	return out, err
}

func (s *ExpenseServiceImpl) RenameVendor(ctx context.Context, callID domain.AuditCallID, id domain.VendorID, r dto.NameRequest) (*domain.Vendor, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Vendor
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		v, err := vendorFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(v)
		if err != nil {
			return audit.MutationSet{}, err
		}
		v.Name = name
		if err := tx.Vendors().Save(ctx, v); err != nil {
			return audit.MutationSet{}, err
		}
		out = v
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: v}}}, nil
	})
	return out, err
}

func (s *ExpenseServiceImpl) DeleteVendor(ctx context.Context, callID domain.AuditCallID, id domain.VendorID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		v, err := vendorFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(v)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Vendors().SoftDelete(ctx, v, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: v}}}, nil
	})
}

func (s *ExpenseServiceImpl) CreateExpense(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.ExpenseRequest) (*domain.Expense, error) {
	spentOn, err := parseDay(r.SpentOn)
	if err != nil {
		return nil, err
	}
	if r.AmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	var out *domain.Expense
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := requireMember(ctx, tx, householdID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		e := &domain.Expense{
			ID:          uuid.New(),
			HouseholdID: householdID,
			SpentOn:     spentOn,
			AmountCents: r.AmountCents,
			Memo:        memo(r.Memo),
		}
		if err := s.link(ctx, tx, e, r.SubcategoryID, r.VendorID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Expenses().Create(ctx, e); err != nil {
			return audit.MutationSet{}, err
		}
		out = e
		return audit.MutationSet{Created: []any{e}}, nil
	})
	return out, err
}

func (s *ExpenseServiceImpl) UpdateExpense(ctx context.Context, callID domain.AuditCallID, id domain.ExpenseID, p dto.ExpensePatch) (*domain.Expense, error) {
	var spentOn *time.Time
	if p.SpentOn != nil {
		d, err := parseDay(*p.SpentOn)
		if err != nil {
			return nil, err
		}
		spentOn = &d
	}
	if p.AmountCents != nil && *p.AmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var out *domain.Expense
	err := s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		e, err := expenseFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(e)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if spentOn != nil {
			e.SpentOn = *spentOn
		}
		if p.AmountCents != nil {
			e.AmountCents = *p.AmountCents
		}
		if p.Memo != nil {
			e.Memo = memo(p.Memo)
		}
		if err := s.link(ctx, tx, e, p.SubcategoryID, p.VendorID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Expenses().Save(ctx, e); err != nil {
			return audit.MutationSet{}, err
		}
		out = e
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: e}}}, nil
	})
	return out, err
}

func (s *ExpenseServiceImpl) DeleteExpense(ctx context.Context, callID domain.AuditCallID, id domain.ExpenseID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		e, err := expenseFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(e)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Expenses().SoftDelete(ctx, e, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: e}}}, nil
	})
}

// link points e at a subcategory and vendor, both of which must belong to
// e's household.
func (s *ExpenseServiceImpl) link(ctx context.Context, tx *store.Store, e *domain.Expense, subcategoryID *uuid.UUID, vendorID *uuid.UUID, actor *domain.User) error {
	if subcategoryID != nil {
		sc, err := subcategoryFor(ctx, tx, *subcategoryID, actor)
		if err != nil {
			return err
		}
		c, err := tx.Categories().Get(ctx, sc.CategoryID)
		if err != nil {
			return err
		}
		if c.HouseholdID != e.HouseholdID {
			return store.ErrRecordNotFound
		}
		id := sc.ID
		e.SubcategoryID = &id
	}
	if vendorID != nil {
		v, err := vendorFor(ctx, tx, *vendorID, actor)
		if err != nil {
			return err
		}
		if v.HouseholdID != e.HouseholdID {
			return store.ErrRecordNotFound
		}
		id := v.ID
		e.VendorID = &id
	}
	return nil
}

func memo(m *string) *string {
	if m == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*m)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func vendorFor(ctx context.Context, tx *store.Store, id domain.VendorID, actor *domain.User) (*domain.Vendor, error) {
	v, err := tx.Vendors().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, tx, v.HouseholdID, actor); err != nil {
		return nil, err
	}
	return v, nil
}

func expenseFor(ctx context.Context, tx *store.Store, id domain.ExpenseID, actor *domain.User) (*domain.Expense, error) {
	e, err := tx.Expenses().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, tx, e.HouseholdID, actor); err != nil {
		return nil, err
	}
	return e, nil
}
