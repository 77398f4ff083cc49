package audit

import "budget/internal/domain"

// DiffCreate records every non-null attribute of a new entity.
func DiffCreate(after Snapshot) []domain.Change {
	var out []domain.Change
	for _, a := range after.Attributes {
		if a.Value.IsNull() {
			continue
		}
		out = append(out, newChange(after, a.Name, nil, a.Value.text()))
	}
	return out
}

// DiffUpdate records attributes present in both snapshots whose canonical
// text differs. Attributes missing from after are ignored.
func DiffUpdate(before, after Snapshot) []domain.Change {
	var out []domain.Change
	for _, a := range after.Attributes {
		b, ok := before.Lookup(a.Name)
		if !ok || b.Equal(a.Value) {
			continue
		}
		out = append(out, newChange(after, a.Name, b.text(), a.Value.text()))
	}
	return out
}

// DiffDelete records every non-null attribute of a removed entity.
func DiffDelete(before Snapshot) []domain.Change {
	var out []domain.Change
	for _, b := range before.Attributes {
		if b.Value.IsNull() {
			continue
		}
		out = append(out, newChange(before, b.Name, b.Value.text(), nil))
	}
	return out
}

func newChange(s Snapshot, attribute string, oldValue, newValue *string) domain.Change {
	return domain.Change{
		Table:     s.Table,
		Key:       s.Key,
		Attribute: attribute,
		OldValue:  oldValue,
		NewValue:  newValue,
	}
}
