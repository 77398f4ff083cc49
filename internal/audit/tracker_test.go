package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/store"
	"budget/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	st      *store.Store
	tracker *audit.Tracker
	user    *domain.User
	call    *domain.AuditCall
}

func setup(t *testing.T) *fixture {
	t.Helper()

	st := testutil.OpenStore(t)
	reg, err := audit.NewRegistry(nil, domain.AuditedModels()...)
	require.NoError(t, err)

	user := testutil.SeedUser(t, st, "alice@example.com")
	call, err := audit.CreateCall(context.Background(), st, audit.CallInput{
		UserID:     &user.ID,
		HTTPMethod: "POST",
		Route:      "/v1/households",
		IPAddress:  "192.0.2.1",
		UserAgent:  "test",
	})
	require.NoError(t, err)

	return &fixture{st: st, tracker: audit.NewTracker(reg), user: user, call: call}
}

func (f *fixture) changes(t *testing.T) []domain.Change {
	t.Helper()
	out, err := audit.Changes(f.st).FindByAuditCall(context.Background(), f.call.ID)
	require.NoError(t, err)
	return out
}

func seedBudget(t *testing.T, st *store.Store, cents int64) *domain.Budget {
	t.Helper()
	b := &domain.Budget{
		ID:            uuid.New(),
		SubcategoryID: uuid.New(),
		Month:         domain.FirstOfMonth(time.Now()),
		AmountCents:   cents,
	}
	require.NoError(t, st.Budgets().Create(context.Background(), b))
	return b
}

func TestTrackCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	h := &domain.Household{ID: uuid.New(), Name: "Home"}
	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Households().Create(ctx, h); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{Created: []any{h}})
	})
	require.NoError(t, err)

	got := f.changes(t)
	require.Len(t, got, 2)
	assert.Equal(t, "id", got[0].Attribute)
	assert.Equal(t, "name", got[1].Attribute)
	for _, c := range got {
		assert.Equal(t, "households", c.Table)
		assert.Equal(t, h.ID.String(), c.Key)
		assert.Equal(t, f.call.ID, c.AuditCallID)
		assert.Nil(t, c.OldValue)
	}
	assert.Equal(t, "Home", *got[1].NewValue)
}

func TestTrackUpdateSingleAttribute(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := seedBudget(t, f.st, 43689)

	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		loaded, err := tx.Budgets().Get(ctx, b.ID)
		if err != nil {
			return err
		}
		before, err := f.tracker.Snapshot(loaded)
		if err != nil {
			return err
		}
		loaded.AmountCents = 50000
		if err := tx.Budgets().Save(ctx, loaded); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{
			Updated: []audit.Update{{Before: before, After: loaded}},
		})
	})
	require.NoError(t, err)

	got := f.changes(t)
	require.Len(t, got, 1)
	assert.Equal(t, "budgets", got[0].Table)
	assert.Equal(t, b.ID.String(), got[0].Key)
	assert.Equal(t, "amount_cents", got[0].Attribute)
	assert.Equal(t, "43689", *got[0].OldValue)
	assert.Equal(t, "50000", *got[0].NewValue)
}

func TestTrackNoOpUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := seedBudget(t, f.st, 100)

	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		before, err := f.tracker.Snapshot(b)
		if err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{
			Updated: []audit.Update{{Before: before, After: b}},
		})
	})
	require.NoError(t, err)
	assert.Empty(t, f.changes(t))
}

func TestTrackSoftDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := seedBudget(t, f.st, 100)

	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		before, err := f.tracker.Snapshot(b)
		if err != nil {
			return err
		}
		if err := tx.Budgets().SoftDelete(ctx, b, time.Now()); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{
			Updated: []audit.Update{{Before: before, After: b}},
		})
	})
	require.NoError(t, err)

	got := f.changes(t)
	require.Len(t, got, 1)
	assert.Equal(t, "deleted_at", got[0].Attribute)
	assert.Nil(t, got[0].OldValue)
	require.NotNil(t, got[0].NewValue)

	_, err = f.st.Budgets().Get(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestTrackHardDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	h := &domain.Household{ID: uuid.New(), Name: "Home"}
	require.NoError(t, f.st.Households().Create(ctx, h))
	m := &domain.HouseholdMember{HouseholdID: h.ID, UserID: f.user.ID, Role: domain.RoleOwner}
	require.NoError(t, f.st.Members().Create(ctx, m))

	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Members().Delete(ctx, m); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{Deleted: []any{m}})
	})
	require.NoError(t, err)

	got := f.changes(t)
	require.Len(t, got, 4)
	for _, c := range got {
		assert.Equal(t, "household_members", c.Table)
		assert.NotNil(t, c.OldValue)
		assert.Nil(t, c.NewValue)
	}
}

func TestTrackDepositAndFundUnderOneCall(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	fund := &domain.Fund{ID: uuid.New(), HouseholdID: uuid.New(), Name: "Holiday", BalanceCents: 1000}
	require.NoError(t, f.st.Funds().Create(ctx, fund))

	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		before, err := f.tracker.Snapshot(fund)
		if err != nil {
			return err
		}
		dep := &domain.Deposit{ID: uuid.New(), FundID: fund.ID, AmountCents: 250, DepositedOn: time.Now()}
		if err := tx.Deposits().Create(ctx, dep); err != nil {
			return err
		}
		fund.BalanceCents += dep.AmountCents
		if err := tx.Funds().Save(ctx, fund); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{
			Created: []any{dep},
			Updated: []audit.Update{{Before: before, After: fund}},
		})
	})
	require.NoError(t, err)

	tables := map[string]int{}
	for _, c := range f.changes(t) {
		tables[c.Table]++
	}
	assert.Equal(t, 4, tables["deposits"])
	assert.Equal(t, 1, tables["funds"])
}

func TestTrackSignUpWithoutUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	call, err := audit.CreateCall(ctx, f.st, audit.CallInput{HTTPMethod: "POST", Route: "/v1/users"})
	require.NoError(t, err)
	assert.Nil(t, call.UserID)

	err = f.st.WithTx(ctx, func(tx *store.Store) error {
		u := &domain.User{Email: "bob@example.com", Name: "Bob"}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		cred := &domain.PasswordCredential{UserID: u.ID, Algo: "argon2id", Hash: []byte("secret-hash"), Salt: []byte("salt"), ParamsJSON: []byte("{}"), PasswordVer: 1}
		if err := tx.Credentials().CreatePassword(ctx, cred); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, call.ID, audit.MutationSet{Created: []any{u, cred}})
	})
	require.NoError(t, err)

	got, err := audit.Changes(f.st).FindByAuditCall(ctx, call.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, c := range got {
		assert.NotEqual(t, "hash", c.Attribute)
		assert.NotEqual(t, "salt", c.Attribute)
		assert.NotEqual(t, "secret-hash", *c.NewValue)
	}
}

func TestTrackRejectsMissingCall(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	h := &domain.Household{ID: uuid.New(), Name: "Home"}

	for _, id := range []uuid.UUID{uuid.Nil, uuid.New()} {
		err := f.st.WithTx(ctx, func(tx *store.Store) error {
			if err := tx.Households().Create(ctx, h); err != nil {
				return err
			}
			return f.tracker.TrackChanges(ctx, tx, id, audit.MutationSet{Created: []any{h}})
		})
		require.ErrorIs(t, err, audit.ErrMissingAuditCall)

		_, err = f.st.Households().Get(ctx, h.ID)
		assert.ErrorIs(t, err, store.ErrRecordNotFound)
	}
}

func TestTrackRejectsDeletedUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.st.Users().SoftDelete(ctx, f.user, time.Now()))

	h := &domain.Household{ID: uuid.New(), Name: "Home"}
	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Households().Create(ctx, h); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{Created: []any{h}})
	})
	require.ErrorIs(t, err, audit.ErrAuditUserDoesNotExist)
	assert.Empty(t, f.changes(t))

	_, err = audit.CreateCall(ctx, f.st, audit.CallInput{UserID: &f.user.ID, HTTPMethod: "POST", Route: "/v1/households"})
	assert.ErrorIs(t, err, audit.ErrAuditUserDoesNotExist)
}

func TestTrackRetiringActingUser(t *testing.T) {
	ctx := context.Background()

	t.Run("tracked before the delete is stored", func(t *testing.T) {
		f := setup(t)
		var stamp gorm.DeletedAt
		err := f.st.WithTx(ctx, func(tx *store.Store) error {
			before, err := f.tracker.Snapshot(f.user)
			if err != nil {
				return err
			}
			stamp = store.DeletedAt(time.Now())
			f.user.DeletedAt = stamp
			err = f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{
				Updated: []audit.Update{{Before: before, After: f.user}},
			})
			if err != nil {
				return err
			}
			return tx.Users().SoftDelete(ctx, f.user, stamp.Time)
		})
		require.NoError(t, err)

		got := f.changes(t)
		require.Len(t, got, 1)
		assert.Equal(t, "users", got[0].Table)
		assert.Equal(t, "deleted_at", got[0].Attribute)
		require.NotNil(t, got[0].NewValue)
		assert.Equal(t, stamp.Time.Format(time.RFC3339Nano), *got[0].NewValue)

		_, err = f.st.Users().GetByID(ctx, f.user.ID)
		assert.ErrorIs(t, err, store.ErrRecordNotFound)
	})

	t.Run("rejected once the delete is stored", func(t *testing.T) {
		f := setup(t)
		err := f.st.WithTx(ctx, func(tx *store.Store) error {
			before, err := f.tracker.Snapshot(f.user)
			if err != nil {
				return err
			}
			if err := tx.Users().SoftDelete(ctx, f.user, time.Now()); err != nil {
				return err
			}
			return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{
				Updated: []audit.Update{{Before: before, After: f.user}},
			})
		})
		require.ErrorIs(t, err, audit.ErrAuditUserDoesNotExist)
		assert.Empty(t, f.changes(t))

		_, err = f.st.Users().GetByID(ctx, f.user.ID)
		assert.NoError(t, err)
	})
}

func TestTrackRequiresTransaction(t *testing.T) {
	f := setup(t)
	b := seedBudget(t, f.st, 1)

	err := f.tracker.TrackChanges(context.Background(), f.st, f.call.ID, audit.MutationSet{Created: []any{b}})
	require.ErrorIs(t, err, audit.ErrTransactionRequired)
	assert.Empty(t, f.changes(t))
}

func TestTrackRejectsMismatchedUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := seedBudget(t, f.st, 1)
	b := seedBudget(t, f.st, 2)

	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		before, err := f.tracker.Snapshot(a)
		if err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{
			Created: []any{&domain.Household{ID: uuid.New(), Name: "x"}},
			Updated: []audit.Update{{Before: before, After: b}},
		})
	})
	require.ErrorIs(t, err, audit.ErrInvalidEntity)
	assert.Empty(t, f.changes(t))
}

func TestTrackStorageFailureRollsBack(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	errDiskFull := errors.New("disk full")
	require.NoError(t, f.st.DB.Callback().Create().Before("gorm:create").Register("test:fail_changes", func(db *gorm.DB) {
		if db.Statement.Table == "changes" {
			_ = db.AddError(errDiskFull)
		}
	}))

	h := &domain.Household{ID: uuid.New(), Name: "Home"}
	err := f.st.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Households().Create(ctx, h); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{Created: []any{h}})
	})
	require.ErrorIs(t, err, errDiskFull)

	_, err = f.st.Households().Get(ctx, h.ID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	assert.Empty(t, f.changes(t))
}

func TestChangeLogIsAppendOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	h := &domain.Household{ID: uuid.New(), Name: "Home"}

	require.NoError(t, f.st.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Households().Create(ctx, h); err != nil {
			return err
		}
		return f.tracker.TrackChanges(ctx, tx, f.call.ID, audit.MutationSet{Created: []any{h}})
	}))

	got := f.changes(t)
	require.NotEmpty(t, got)
	assert.ErrorIs(t, f.st.DB.Model(&got[0]).Update("attribute", "x").Error, domain.ErrAppendOnly)
	assert.ErrorIs(t, f.st.DB.Delete(&got[0]).Error, domain.ErrAppendOnly)

	hist, err := audit.Changes(f.st).FindByEntityKey(ctx, "households", h.ID.String())
	require.NoError(t, err)
	assert.Len(t, hist, len(got))
}
