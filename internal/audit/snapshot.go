package audit

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"gorm.io/gorm/schema"
)

// Attribute is one named value of a Snapshot.
type Attribute struct {
	Name  string
	Value Value
}

// Snapshot is the flat attribute set of one entity at a point in time.
// Attributes are ordered by name.
type Snapshot struct {
	Table      string
	Key        string
	Attributes []Attribute
}

// Lookup returns the value of the named attribute.
func (s Snapshot) Lookup(name string) (Value, bool) {
	i := sort.Search(len(s.Attributes), func(i int) bool { return s.Attributes[i].Name >= name })
	if i < len(s.Attributes) && s.Attributes[i].Name == name {
		return s.Attributes[i].Value, true
	}
	return Value{}, false
}

type descriptor struct {
	table  string
	keys   []*schema.Field
	fields []*schema.Field
}

// Registry maps each audited model type to the ordered list of persisted
// columns captured by Snapshot. It is built once and read-only afterwards.
type Registry struct {
	byType map[reflect.Type]*descriptor
}

// NewRegistry parses every model with the ORM's schema parser. Columns that
// are relations, tagged `audit:"-"`, or maintained automatically as
// created/updated timestamps are left out; deleted_at stays in so soft
// deletion shows up as an attribute change.
func NewRegistry(namer schema.Namer, models ...any) (*Registry, error) {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	cache := &sync.Map{}
	r := &Registry{byType: make(map[reflect.Type]*descriptor, len(models))}
	for _, m := range models {
		s, err := schema.Parse(m, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("audit: parse %T: %w", m, err)
		}
		d := &descriptor{table: s.Table}
		for _, f := range s.Fields {
			if f.DBName == "" || !f.Readable || f.Tag.Get("audit") == "-" {
				continue
			}
			if f.AutoCreateTime != 0 || f.AutoUpdateTime != 0 {
				continue
			}
			d.fields = append(d.fields, f)
		}
		sort.Slice(d.fields, func(i, j int) bool { return d.fields[i].DBName < d.fields[j].DBName })

		d.keys = s.PrimaryFields
		if len(d.keys) == 0 {
			// Keyless tables are addressed by <singular table>_id, e.g. a
			// "settings" row by setting_id.
			if f := s.LookUpField(inflection.Singular(s.Table) + "_id"); f != nil {
				d.keys = []*schema.Field{f}
			}
		}
		if len(d.keys) == 0 {
			return nil, fmt.Errorf("audit: %s has no primary key", s.Table)
		}
		r.byType[s.ModelType] = d
	}
	return r, nil
}

// Tables lists the registered table names in sorted order.
func (r *Registry) Tables() []string {
	out := make([]string, 0, len(r.byType))
	for _, d := range r.byType {
		out = append(out, d.table)
	}
	sort.Strings(out)
	return out
}

// Snapshot captures the current in-memory attribute values of entity, which
// must be a registered model or a pointer to one.
func (r *Registry) Snapshot(entity any) (Snapshot, error) {
	rv := reflect.ValueOf(entity)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Snapshot{}, fmt.Errorf("%w: nil %T", ErrInvalidEntity, entity)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return Snapshot{}, fmt.Errorf("%w: %T is not a model", ErrInvalidEntity, entity)
	}
	d, ok := r.byType[rv.Type()]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s is not registered", ErrInvalidEntity, rv.Type())
	}

	ctx := context.Background()
	keys := make([]string, 0, len(d.keys))
	for _, f := range d.keys {
		raw, zero := f.ValueOf(ctx, rv)
		if zero {
			return Snapshot{}, fmt.Errorf("%w: %s has no %s", ErrInvalidEntity, d.table, f.DBName)
		}
		v, err := valueOf(raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s.%s: %v", ErrInvalidEntity, d.table, f.DBName, err)
		}
		keys = append(keys, v.String())
	}

	snap := Snapshot{
		Table:      d.table,
		Key:        strings.Join(keys, ","),
		Attributes: make([]Attribute, 0, len(d.fields)),
	}
	for _, f := range d.fields {
		raw, _ := f.ValueOf(ctx, rv)
		v, err := valueOf(raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s.%s: %v", ErrInvalidEntity, d.table, f.DBName, err)
		}
		snap.Attributes = append(snap.Attributes, Attribute{Name: f.DBName, Value: v})
	}
	return snap, nil
}
