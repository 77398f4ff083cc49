package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/store"
)

// unitOfWork runs one tracked mutation: open the transaction, resolve the
// audit call and its acting user, let fn mutate, then record what fn
// reports. Any failure rolls back the business rows and the change rows
// together.
type unitOfWork struct {
	store   *store.Store
	tracker *audit.Tracker
	now     func() time.Time
}

func newUnitOfWork(st *store.Store, tracker *audit.Tracker) unitOfWork {
	return unitOfWork{store: st, tracker: tracker, now: time.Now}
}

type workFunc func(tx *store.Store, actor *domain.User) (audit.MutationSet, error)

// afterTrackFunc persists writes that may only reach the database once the
// changes are recorded, such as retiring the acting user.
type afterTrackFunc func() error

type stagedWorkFunc func(tx *store.Store, actor *domain.User) (audit.MutationSet, afterTrackFunc, error)

func (u unitOfWork) run(ctx context.Context, callID domain.AuditCallID, fn workFunc) error {
	return u.runStaged(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, afterTrackFunc, error) {
		set, err := fn(tx, actor)
		return set, nil, err
	})
}

// runStaged is run with a second phase that executes after tracking, inside
// the same transaction.
func (u unitOfWork) runStaged(ctx context.Context, callID domain.AuditCallID, fn stagedWorkFunc) error {
	return u.store.WithTx(ctx, func(tx *store.Store) error {
		call, err := audit.ResolveCall(ctx, tx, callID)
		if err != nil {
			return err
		}
		actor, err := audit.ResolveActingUser(ctx, tx, call)
		if err != nil {
			return err
		}
		set, after, err := fn(tx, actor)
		if err != nil {
			return err
		}
		if err := u.tracker.TrackChanges(ctx, tx, call.ID, set); err != nil {
			return err
		}
		if after != nil {
			return after()
		}
		return nil
	})
}

// runAuthenticated is run for calls that must carry a user.
func (u unitOfWork) runAuthenticated(ctx context.Context, callID domain.AuditCallID, fn workFunc) error {
	return u.run(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, error) {
		if actor == nil {
			return audit.MutationSet{}, domain.ErrUnauthenticated
		}
		return fn(tx, actor)
	})
}

// requireMember fails with ErrNotHouseholdMember unless actor belongs to a
// live household.
func requireMember(ctx context.Context, tx *store.Store, householdID domain.HouseholdID, actor *domain.User) (*domain.Household, error) {
	h, err := tx.Households().Get(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Members().Find(ctx, householdID, actor.ID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotHouseholdMember
		}
		return nil, err
	}
	return h, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	return name, nil
}

func parseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return domain.FirstOfMonth(t), nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t.UTC(), nil
}
