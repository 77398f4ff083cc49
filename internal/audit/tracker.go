package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/domain"
	"budget/internal/observability/metrics"
	"budget/internal/store"

	"github.com/google/uuid"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Update pairs the snapshot taken before an in-memory mutation with the
// mutated entity.
type Update struct {
	Before Snapshot
	After  any
}

// MutationSet lists the entities touched by one unit of work.
type MutationSet struct {
	Created []any
	Updated []Update
	Deleted []any
}

func (m MutationSet) Empty() bool {
	return len(m.Created) == 0 && len(m.Updated) == 0 && len(m.Deleted) == 0
}

// Tracker is the only writer of Change rows.
type Tracker struct {
	registry *Registry
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithClock sets the source of Change.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker builds a tracker over the models in reg.
func NewTracker(reg *Registry, opts ...Option) *Tracker {
	t := &Tracker{
		registry: reg,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Snapshot captures entity before the caller mutates it.
func (t *Tracker) Snapshot(entity any) (Snapshot, error) {
	return t.registry.Snapshot(entity)
}

// TrackChanges diffs set and appends the resulting Change rows inside tx,
// attributed to callID. Nothing is written unless every entity snapshots
// cleanly. Any returned error must abort the caller's transaction.
func (t *Tracker) TrackChanges(ctx context.Context, tx *store.Store, callID domain.AuditCallID, set MutationSet) error {
	if callID == uuid.Nil {
		return t.fail("missing_call", fmt.Errorf("%w: empty id", ErrMissingAuditCall))
	}
	if !tx.InTransaction() {
		return t.fail("no_transaction", ErrTransactionRequired)
	}
	call, err := ResolveCall(ctx, tx, callID)
	if err != nil {
		return t.fail("missing_call", err)
	}
	if _, err := ResolveActingUser(ctx, tx, call); err != nil {
		return t.fail("user_missing", err)
	}

	pending, err := t.diff(set)
	if err != nil {
		return t.fail("invalid_entity", err)
	}

	now := t.now().UTC()
	changes := make([]domain.Change, len(pending))
	for i, tc := range pending {
		changes[i] = tc.change
		changes[i].AuditCallID = call.ID
		changes[i].CreatedAt = now
	}
	if err := appendChanges(ctx, tx.DB, changes); err != nil {
		return t.fail("storage", err)
	}
	for _, tc := range pending {
		metrics.AuditChangesRecordedTotal.WithLabelValues(tc.change.Table, tc.op).Inc()
	}

	t.log.DebugContext(ctx, "changes tracked",
		"audit_call_id", call.ID.String(),
		"created", len(set.Created),
		"updated", len(set.Updated),
		"deleted", len(set.Deleted),
		"changes", len(changes),
	)
	return nil
}

type tagged struct {
	op     string
	change domain.Change
}

func (t *Tracker) diff(set MutationSet) ([]tagged, error) {
	var out []tagged
	for _, e := range set.Created {
		after, err := t.registry.Snapshot(e)
		if err != nil {
			return nil, err
		}
		out = tag(out, opCreate, DiffCreate(after))
	}
	for _, u := range set.Updated {
		after, err := t.registry.Snapshot(u.After)
		if err != nil {
			return nil, err
		}
		if u.Before.Table != after.Table || u.Before.Key != after.Key {
			return nil, fmt.Errorf("%w: before snapshot %s/%s does not match %s/%s",
				ErrInvalidEntity, u.Before.Table, u.Before.Key, after.Table, after.Key)
		}
		out = tag(out, opUpdate, DiffUpdate(u.Before, after))
	}
	for _, e := range set.Deleted {
		before, err := t.registry.Snapshot(e)
		if err != nil {
			return nil, err
		}
		out = tag(out, opDelete, DiffDelete(before))
	}
	return out, nil
}

func tag(out []tagged, op string, changes []domain.Change) []tagged {
	for _, c := range changes {
		out = append(out, tagged{op: op, change: c})
	}
	return out
}

func (t *Tracker) fail(reason string, err error) error {
	metrics.AuditTrackFailuresTotal.WithLabelValues(reason).Inc()
	if reason == "storage" {
		t.log.Error("change log append failed", "err", err)
	} else {
		t.log.Warn("change tracking rejected", "reason", reason, "err", err)
	}
	return err
}
