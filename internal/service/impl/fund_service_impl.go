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

type FundServiceImpl struct{ unitOfWork }

func NewFundServiceImpl(st *store.Store, tracker *audit.Tracker) *FundServiceImpl {
	return &FundServiceImpl{newUnitOfWork(st, tracker)}
}

func (s *FundServiceImpl) CreateFund(ctx context.Context, callID domain.AuditCallID, householdID domain.HouseholdID, r dto.NameRequest) (*domain.Fund, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Fund
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if _, err := requireMember(ctx, tx, householdID, actor); err != nil {
			return audit.MutationSet{}, err
		}
		f := &domain.Fund{ID: uuid.New(), HouseholdID: householdID, Name: name}
		if err := tx.Funds().Create(ctx, f); err != nil {
			return audit.MutationSet{}, err
		}
		out = f
		return audit.MutationSet{Created: []any{f}}, nil
	})
	return out, err
}

func (s *FundServiceImpl) RenameFund(ctx context.Context, callID domain.AuditCallID, id domain.FundID, r dto.NameRequest) (*domain.Fund, error) {
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	var out *domain.Fund
	err = s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		f, err := fundFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(f)
		if err != nil {
			return audit.MutationSet{}, err
		}
		f.Name = name
		if err := tx.Funds().Save(ctx, f); err != nil {
			return audit.MutationSet{}, err
		}
		out = f
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: f}}}, nil
	})
	return out, err
}

func (s *FundServiceImpl) DeleteFund(ctx context.Context, callID domain.AuditCallID, id domain.FundID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		f, err := fundFor(ctx, tx, id, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(f)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Funds().SoftDelete(ctx, f, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: f}}}, nil
	})
}

func (s *FundServiceImpl) Deposit(ctx context.Context, callID domain.AuditCallID, fundID domain.FundID, r dto.DepositRequest) (*domain.Deposit, *domain.Fund, error) {
	if r.AmountCents <= 0 {
		return nil, nil, domain.ErrInvalidAmount
	}
	on := s.now().UTC().Truncate(24 * time.Hour)
	if r.DepositedOn != "" {
		d, err := parseDay(r.DepositedOn)
		if err != nil {
			return nil, nil, err
		}
		on = d
	}

	var (
		dep  *domain.Deposit
		fund *domain.Fund
	)
	err := s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		f, err := fundFor(ctx, tx, fundID, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		before, err := s.tracker.Snapshot(f)
		if err != nil {
			return audit.MutationSet{}, err
		}
		d := &domain.Deposit{ID: uuid.New(), FundID: f.ID, AmountCents: r.AmountCents, DepositedOn: on}
		if err := tx.Deposits().Create(ctx, d); err != nil {
			return audit.MutationSet{}, err
		}
		f.BalanceCents += d.AmountCents
		if err := tx.Funds().Save(ctx, f); err != nil {
			return audit.MutationSet{}, err
		}
		dep, fund = d, f
		return audit.MutationSet{
			Created: []any{d},
			Updated: []audit.Update{{Before: before, After: f}},
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return dep, fund, nil
}

func (s *FundServiceImpl) DeleteDeposit(ctx context.Context, callID domain.AuditCallID, id domain.DepositID) error {
	return s.runAuthenticated(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		d, err := tx.Deposits().Get(ctx, id)
		if err != nil {
			return audit.MutationSet{}, err
		}
		f, err := fundFor(ctx, tx, d.FundID, actor)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if f.BalanceCents < d.AmountCents {
			return audit.MutationSet{}, domain.ErrInsufficientFunds
		}
		depBefore, err := s.tracker.Snapshot(d)
		if err != nil {
			return audit.MutationSet{}, err
		}
		fundBefore, err := s.tracker.Snapshot(f)
		if err != nil {
			return audit.MutationSet{}, err
		}
		if err := tx.Deposits().SoftDelete(ctx, d, s.now()); err != nil {
			return audit.MutationSet{}, err
		}
		f.BalanceCents -= d.AmountCents
		if err := tx.Funds().Save(ctx, f); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{
			{Before: depBefore, After: d},
			{Before: fundBefore, After: f},
		}}, nil
	})
}

func fundFor(ctx context.Context, tx *store.Store, id domain.FundID, actor *domain.User) (*domain.Fund, error) {
	f, err := tx.Funds().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, tx, f.HouseholdID, actor); err != nil {
		return nil, err
	}
	return f, nil
}
