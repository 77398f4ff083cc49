package impl

import (
	"context"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/dto"
	"budget/internal/store"

	"github.com/google/uuid"
)

type CategoryServiceImpl struct{ unitOfWork }

func NewCategoryServiceImpl(st *store.Store, tracker *audit.Tracker) *CategoryServiceImpl {
	return &CategoryServiceImpl{newUnitOfWork(st, tracker)}
}

func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.NameRequest) (*domain.Category, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Category
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := requireMember(ctx, tx, householdID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		c := &domain.Category{ID: uuid.New(), HouseholdID: householdID, Name: name}
		if err := tx.Categories().Create(ctx, c); err != nil {
			return audit.MutationSet{}, err
		}
		out = c
		return audit.MutationSet{Created: []any{c}}, nil
	})
	return out, err
}

func (s *CategoryServiceImpl) RenameCategory(ctx context.Context, callID domain.AuditCallID, id domain.CategoryID, r dto.NameRequest) (*domain.Category, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Category
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		c, err := categoryFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(c)
		if err != nil {
			return audit.MutationSet{}, err
		}
		c.Name = name
		if err := tx.Categories().Save(ctx, c); err != nil {
			return audit.MutationSet{}, err
		}
		out = c
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: c}}}, nil
	})
	return out, err
}

func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, callID domain.AuditCallID, id domain.CategoryID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		c, err := categoryFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(c)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Categories().SoftDelete(ctx, c, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: c}}}, nil
	})
}

func (s *CategoryServiceImpl) CreateSubcategory(ctx context.Context, callID domain.AuditCallID, categoryID domain.CategoryID, r dto.NameRequest) (*domain.Subcategory, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Subcategory
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := categoryFor(ctx, tx, categoryID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		sc := &domain.Subcategory{ID: uuid.New(), CategoryID: categoryID, Name: name}
		if err := tx.Subcategories().Create(ctx, sc); err != nil {
			return audit.MutationSet{}, err
		}
		out = sc
		return audit.MutationSet{Created: []any{sc}}, nil
	})
	return out, err
}

func (s *CategoryServiceImpl) RenameSubcategory(ctx context.Context, callID domain.AuditCallID, id domain.SubcategoryID, r dto.NameRequest) (*domain.Subcategory, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Subcategory
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		sc, err := subcategoryFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(sc)
		if err != nil {
			return audit.MutationSet{}, err
		}
		sc.Name = name
		if err := tx.Subcategories().Save(ctx, sc); err != nil {
			return audit.MutationSet{}, err
		}
		out = sc
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: sc}}}, nil
	})
	return out, err
}

func (s *CategoryServiceImpl) DeleteSubcategory(ctx context.Context, callID domain.AuditCallID, id domain.SubcategoryID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		sc, err := subcategoryFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(sc)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Subcategories().SoftDelete(ctx, sc, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: sc}}}, nil
	})
}

func categoryFor(ctx context.Context, tx *store.Store, id domain.CategoryID, actor *domain.User) (*domain.Category, error) {
	c, err := tx.Categories().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, tx, c.HouseholdID, actor); err != nil {
		return nil, err
	}
	return c, nil
}

// subcategoryFor loads a subcategory the actor may touch through its
// category's household.
func subcategoryFor(ctx context.Context, tx *store.Store, id domain.SubcategoryID, actor *domain.User) (*domain.Subcategory, error) {
	sc, err := tx.Subcategories().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := categoryFor(ctx, tx, sc.CategoryID, actor); err != nil {
		return nil, err
	}
	return sc, nil
}
