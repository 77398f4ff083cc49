package impl

import (
	"context"
	"errors"
	"strings"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/store"

	"github.com/google/uuid"
)

type AuditServiceImpl struct {
	store *store.Store
}

func NewAuditServiceImpl(st *store.Store) *AuditServiceImpl {
	return &AuditServiceImpl{store: st}
}

func (s *AuditServiceImpl) ChangesByCall(ctx context.Context, userID domain.UserID, callID domain.AuditCallID) ([]domain.Change, error) {
	call, err := audit.ResolveCall(ctx, s.store, callID)
	if err != nil {
		if errors.Is(err, audit.ErrMissingAuditCall) {
			return nil, store.ErrRecordNotFound
		}
		return nil, err
	}
	// Other users' calls are reported as absent.
	if call.UserID == nil || *call.UserID != userID {
		return nil, store.ErrRecordNotFound
	}
	return audit.Changes(s.store).FindByAuditCall(ctx, call.ID)
}

// ChangesByEntity also serves soft-deleted entities, whose history stays
// readable to the household that owned them.
func (s *AuditServiceImpl) ChangesByEntity(ctx context.Context, userID domain.UserID, table, key string) ([]domain.Change, error) {
	table, key = strings.TrimSpace(table), strings.TrimSpace(key)
	if table == "" || key == "" {
		return nil, ErrMissingEntityRef
	}
	id, err := uuid.Parse(key)
	if err != nil {
		return nil, store.ErrRecordNotFound
	}
	if err := s.canSee(ctx, userID, table, id); err != nil {
		return nil, err
	}
	return audit.Changes(s.store).FindByEntityKey(ctx, table, key)
}

// canSee resolves the owner of table/id. Account rows belong to their user;
// everything else belongs to a household and needs a membership.
func (s *AuditServiceImpl) canSee(ctx context.Context, userID domain.UserID, table string, id uuid.UUID) error {
	switch table {
	case "users":
		if id != userID {
			return store.ErrRecordNotFound
		}
		return nil
	case "password_credentials":
		c, err := store.Lookup[domain.PasswordCredential](ctx, s.store, id)
		if err != nil {
			return err
		}
		if c.UserID != userID {
			return store.ErrRecordNotFound
		}
		return nil
	}

	householdID, err := s.householdOf(ctx, table, id)
	if err != nil {
		return err
	}
	if _, err := s.store.Members().Find(ctx, householdID, userID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotHouseholdMember
		}
		return err
	}
	return nil
}

func (s *AuditServiceImpl) householdOf(ctx context.Context, table string, id uuid.UUID) (domain.HouseholdID, error) {
	switch table {
	case "households":
		h, err := store.Lookup[domain.Household](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return h.ID, nil
	case "household_members":
		m, err := store.Lookup[domain.HouseholdMember](ctx, s.store, id)
		if errors.Is(err, store.ErrRecordNotFound) {
			// Memberships are hard-deleted; their household survives in the log.
			return s.recordedHousehold(ctx, table, id)
		}
		if err != nil {
			return uuid.Nil, err
		}
		return m.HouseholdID, nil
	case "categories":
		c, err := store.Lookup[domain.Category](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return c.HouseholdID, nil
	case "subcategories":
		sc, err := store.Lookup[domain.Subcategory](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return s.householdOf(ctx, "categories", sc.CategoryID)
	case "budgets":
		b, err := store.Lookup[domain.Budget](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return s.householdOf(ctx, "subcategories", b.SubcategoryID)
	case "vendors":
		v, err := store.Lookup[domain.Vendor](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return v.HouseholdID, nil
	case "expenses":
		e, err := store.Lookup[domain.Expense](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return e.HouseholdID, nil
	case "funds":
		f, err := store.Lookup[domain.Fund](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return f.HouseholdID, nil
	case "deposits":
		d, err := store.Lookup[domain.Deposit](ctx, s.store, id)
		if err != nil {
			return uuid.Nil, err
		}
		return s.householdOf(ctx, "funds", d.FundID)
	}
	return uuid.Nil, store.ErrRecordNotFound
}

func (s *AuditServiceImpl) recordedHousehold(ctx context.Context, table string, id uuid.UUID) (domain.HouseholdID, error) {
	changes, err := audit.Changes(s.store).FindByEntityKey(ctx, table, id.String())
	if err != nil {
		return uuid.Nil, err
	}
	for _, c := range changes {
		if c.Attribute != "household_id" {
			continue
		}
		for _, v := range []*string{c.NewValue, c.OldValue} {
			if v == nil {
				continue
			}
			if householdID, err := uuid.Parse(*v); err == nil {
				return householdID, nil
			}
		}
	}
	return uuid.Nil, store.ErrRecordNotFound
}
