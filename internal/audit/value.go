package audit

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBool
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	default:
		return "null"
	}
}

// Value is one attribute value captured in a Snapshot. Two values are equal
// for diffing purposes iff their canonical text is equal.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// Null is the absent value; it has no text form.
func Null() Value { return Value{} }

// String holds s verbatim.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Integer renders in base 10.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float renders in the shortest decimal form without an exponent.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool renders as "true" or "false".
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Timestamp renders in UTC with nanoseconds.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Equal compares canonical text, so Integer(1) equals Float(1).
func (v Value) Equal(o Value) bool { return ptrEqual(v.text(), o.text()) }

// Text returns the canonical stored form. ok is false for Null.
func (v Value) Text() (s string, ok bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindInteger:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindTimestamp:
		return v.t.UTC().Format(time.RFC3339Nano), true
	default:
		return "", false
	}
}

func (v Value) String() string {
	if s, ok := v.Text(); ok {
		return s
	}
	return "NULL"
}

func (v Value) text() *string {
	s, ok := v.Text()
	if !ok {
		return nil
	}
	return &s
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// valueOf converts a Go attribute value into a tagged Value. driver.Valuer
// implementations (uuid.UUID, gorm.DeletedAt, sql.Null*) are resolved first
// so their stored representation is what gets diffed.
func valueOf(x any) (Value, error) {
	if x == nil {
		return Null(), nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null(), nil
	}

	switch v := x.(type) {
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case bool:
		return Bool(v), nil
	case int:
		return Integer(int64(v)), nil
	case int8:
		return Integer(int64(v)), nil
	case int16:
		return Integer(int64(v)), nil
	case int32:
		return Integer(int64(v)), nil
	case int64:
		return Integer(v), nil
	case uint8:
		return Integer(int64(v)), nil
	case uint16:
		return Integer(int64(v)), nil
	case uint32:
		return Integer(int64(v)), nil
	case uint:
		return unsigned(uint64(v)), nil
	case uint64:
		return unsigned(v), nil
	case float32:
		f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'f', -1, 32), 64)
		return Float(f), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return Timestamp(v), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return Value{}, fmt.Errorf("resolve %T: %w", x, err)
		}
		if _, again := dv.(driver.Valuer); again {
			return Value{}, fmt.Errorf("%T.Value returned another Valuer", x)
		}
		return valueOf(dv)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return valueOf(rv.Elem().Interface())
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsigned(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	}
	return Value{}, fmt.Errorf("unsupported attribute type %T", x)
}

func unsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return String(strconv.FormatUint(u, 10))
	}
	return Integer(int64(u))
}
