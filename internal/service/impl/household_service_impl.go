package impl

import (
	"context"
	"errors"
	"strings"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/dto"
	"budget/internal/store"

	"github.com/google/uuid"
)

type HouseholdServiceImpl struct{ unitOfWork }

func NewHouseholdServiceImpl(st *store.Store, tracker *audit.Tracker) *HouseholdServiceImpl {
	return &HouseholdServiceImpl{newUnitOfWork(st, tracker)}
}

// Create makes a household with the acting user as its owner.
func (s *HouseholdServiceImpl) Create(ctx context.Context, callID domain.AuditCallID, r dto.NameRequest) (*domain.Household, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Household
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		h := &domain.Household{ID: uuid.New(), Name: name}
		if err := tx.Households().Create(ctx, h); err != nil {
			return audit.MutationSet{}, err
		}
		owner := &domain.HouseholdMember{HouseholdID: h.ID, UserID: actor.ID, Role: domain.RoleOwner}
		if err := tx.Members().Create(ctx, owner); err != nil {
			return audit.MutationSet{}, err
		}
		out = h
		return audit.MutationSet{Created: []any{h, owner}}, nil
	})
	return out, err
}

func (s *HouseholdServiceImpl) Rename(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID, r dto.NameRequest) (*domain.Household, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Household
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		h, err := requireMember(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(h)
		if err != nil {
			return audit.MutationSet{}, err
		}
		h.Name = name
		if err := tx.Households().Save(ctx, h); err != nil {
			return audit.MutationSet{}, err
		}
		out = h
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: h}}}, nil
	})
	return out, err
}

// Delete soft-deletes the household. Its rows stay in place for the change
// log but become unreachable.
func (s *HouseholdServiceImpl) Delete(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		h, err := requireMember(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(h)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Households().SoftDelete(ctx, h, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: h}}}, nil
	})
}

func (s *HouseholdServiceImpl) AddMember(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID, r dto.AddMemberRequest) (*domain.HouseholdMember, error) {
	role := strings.ToLower(strings.TrimSpace(r.Role))
	switch role {
	case "":
		role = domain.RoleMember
	case domain.RoleMember, domain.RoleOwner:
	default:
		return nil, ErrInvalidRole
	}
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if email == "" {
		return nil, ErrEmptyEmail
	}

	var out *domain.HouseholdMember
	err := s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := requireMember(ctx, tx, id, actor); err != nil {
			return audit.MutationSet{}, err
		}
		user, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if _, err := tx.Members().Find(ctx, id, user.ID); err == nil {
			return audit.MutationSet{}, domain.ErrAlreadyMember
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return audit.MutationSet{}, err
		}
		m := &domain.HouseholdMember{HouseholdID: id, UserID: user.ID, Role: role}
		if err := tx.Members().Create(ctx, m); err != nil {
			return audit.MutationSet{}, err
		}
		out = m
		return audit.MutationSet{Created: []any{m}}, nil
	})
	return out, err
}

// RemoveMember hard-deletes a membership. The last member cannot leave.
func (s *HouseholdServiceImpl) RemoveMember(ctx context.Context, callID domain.AuditCallID, id domain.HouseholdID, memberID domain.MemberID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := requireMember(ctx, tx, id, actor); err != nil {
			return audit.MutationSet{}, err
		}
		m, err := tx.Members().Get(ctx, id, memberID)
		if err != nil {
			return audit.MutationSet{}, err
		}
		n, err := tx.Members().Count(ctx, id)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if n <= 1 {
			return audit.MutationSet{}, domain.ErrLastMember
		}
		if err := tx.Members().Delete(ctx, m); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Deleted: []any{m}}, nil
	})
}
