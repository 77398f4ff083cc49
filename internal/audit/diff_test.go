package audit

import (
	"testing"

	"budget/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(key string, attrs ...Attribute) Snapshot {
	return Snapshot{Table: "budgets", Key: key, Attributes: attrs}
}

func strp(s string) *string { return &s }

func TestDiffCreate(t *testing.T) {
	t.Parallel()

	after := snap("b1",
		Attribute{Name: "amount_cents", Value: Integer(43689)},
		Attribute{Name: "deleted_at", Value: Null()},
		Attribute{Name: "id", Value: String("b1")},
	)
	got := DiffCreate(after)

	require.Len(t, got, 2)
	assert.Equal(t, domain.Change{Table: "budgets", Key: "b1", Attribute: "amount_cents", NewValue: strp("43689")}, got[0])
	assert.Equal(t, "id", got[1].Attribute)
	for _, c := range got {
		assert.Nil(t, c.OldValue)
		assert.NotNil(t, c.NewValue)
	}
}

func TestDiffDelete(t *testing.T) {
	t.Parallel()

	before := snap("b1",
		Attribute{Name: "amount_cents", Value: Integer(50000)},
		Attribute{Name: "deleted_at", Value: Null()},
		Attribute{Name: "id", Value: String("b1")},
	)
	got := DiffDelete(before)

	require.Len(t, got, 2)
	assert.Equal(t, strp("50000"), got[0].OldValue)
	assert.Nil(t, got[0].NewValue)
	assert.Equal(t, "id", got[1].Attribute)
}

func TestDiffUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before Snapshot
		after  Snapshot
		want   []domain.Change
	}{
		{
			name:   "identical snapshots",
			before: snap("b1", Attribute{Name: "amount_cents", Value: Integer(1)}),
			after:  snap("b1", Attribute{Name: "amount_cents", Value: Integer(1)}),
			want:   nil,
		},
		{
			name:   "single attribute",
			before: snap("b1", Attribute{Name: "amount_cents", Value: Integer(43689)}, Attribute{Name: "id", Value: String("b1")}),
			after:  snap("b1", Attribute{Name: "amount_cents", Value: Integer(50000)}, Attribute{Name: "id", Value: String("b1")}),
			want: []domain.Change{
				{Table: "budgets", Key: "b1", Attribute: "amount_cents", OldValue: strp("43689"), NewValue: strp("50000")},
			},
		},
		{
			name:   "null to value",
			before: snap("b1", Attribute{Name: "deleted_at", Value: Null()}),
			after:  snap("b1", Attribute{Name: "deleted_at", Value: String("x")}),
			want: []domain.Change{
				{Table: "budgets", Key: "b1", Attribute: "deleted_at", OldValue: nil, NewValue: strp("x")},
			},
		},
		{
			name:   "value to null",
			before: snap("b1", Attribute{Name: "memo", Value: String("x")}),
			after:  snap("b1", Attribute{Name: "memo", Value: Null()}),
			want: []domain.Change{
				{Table: "budgets", Key: "b1", Attribute: "memo", OldValue: strp("x"), NewValue: nil},
			},
		},
		{
			name:   "float representations agree",
			before: snap("b1", Attribute{Name: "rate", Value: Float(1)}),
			after:  snap("b1", Attribute{Name: "rate", Value: Float(1.0)}),
			want:   nil,
		},
		{
			name:   "attribute missing from after is ignored",
			before: snap("b1", Attribute{Name: "amount_cents", Value: Integer(1)}, Attribute{Name: "name", Value: String("a")}),
			after:  snap("b1", Attribute{Name: "name", Value: String("a")}),
			want:   nil,
		},
		{
			name:   "attribute missing from before is ignored",
			before: snap("b1"),
			after:  snap("b1", Attribute{Name: "name", Value: String("a")}),
			want:   nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DiffUpdate(tc.before, tc.after))
		})
	}
}

func TestDiffUpdateNeverEmitsEqualValues(t *testing.T) {
	t.Parallel()

	values := []Value{Null(), String(""), String("1"), Integer(1), Float(1), Bool(false), String("false")}
	for _, a := range values {
		for _, b := range values {
			got := DiffUpdate(snap("k", Attribute{Name: "v", Value: a}), snap("k", Attribute{Name: "v", Value: b}))
			for _, c := range got {
				assert.False(t, ptrEqual(c.OldValue, c.NewValue), "%s -> %s", a, b)
			}
			assert.Equal(t, !a.Equal(b), len(got) == 1, "%s -> %s", a, b)
		}
	}
}
