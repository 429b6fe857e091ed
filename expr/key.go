package expr

import (
	"reflect"
	"regexp"
)

var (
	keyPattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	columnPattern = regexp.MustCompile(`^(\*|[A-Za-z_][A-Za-z0-9_]*(\.([A-Za-z_][A-Za-z0-9_]*|\*))?)$`)
)

// Key names a column or a table. It is written into the statement text as is,
// so only plain (optionally qualified) identifiers are accepted.
type Key string

// Value is a literal that is always bound, never inlined.
type Value struct {
	V any
}

func Val(v any) Value {
	return Value{V: v}
}

func (it Value) Render(w *Writer) {
	w.Bind(it.V)
}

func (it Key) Valid() bool {
	return keyPattern.MatchString(string(it))
}

// ValidColumn is Valid plus `*` and `t.*`, which only a select list takes.
func (it Key) ValidColumn() bool {
	return columnPattern.MatchString(string(it))
}

// isNil reports untyped nil and nil pointers, maps, slices and interfaces.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func (it Key) Render(w *Writer) {
	w.Key(it)
}

func (it Key) Eq(value any) Cond {
	if isNil(value) {
		return it.IsNull()
	}
	return &compare{key: it, op: "=", value: value}
}

func (it Key) Ne(value any) Cond {
	if isNil(value) {
		return it.NotNull()
	}
	return &compare{key: it, op: "<>", value: value}
}

func (it Key) Gt(value any) Cond {
	return &compare{key: it, op: ">", value: value}
}

func (it Key) Ge(value any) Cond {
	return &compare{key: it, op: ">=", value: value}
}

func (it Key) Lt(value any) Cond {
	return &compare{key: it, op: "<", value: value}
}

func (it Key) Le(value any) Cond {
	return &compare{key: it, op: "<=", value: value}
}

func (it Key) Like(pattern string) Cond {
	return &compare{key: it, op: "LIKE", value: pattern}
}

func (it Key) NotLike(pattern string) Cond {
	return &compare{key: it, op: "NOT LIKE", value: pattern}
}

func (it Key) IsNull() Cond {
	return &nullCheck{key: it}
}

func (it Key) NotNull() Cond {
	return &nullCheck{key: it, not: true}
}

func (it Key) Between(low, high any) Cond {
	return &between{key: it, low: low, high: high}
}

// In matches any of values; an empty list never matches.
func (it Key) In(values ...any) Cond {
	if len(values) < 1 {
		return False
	}
	return &inList{key: it, values: values}
}

// NotIn matches none of values; an empty list always matches.
func (it Key) NotIn(values ...any) Cond {
	if len(values) < 1 {
		return True
	}
	return &inList{key: it, values: values, not: true}
}

// AnyOf is In over a typed slice.
func AnyOf[T any](key Key, values []T) Cond {
	list := make([]any, 0, len(values))
	for _, v := range values {
		list = append(list, v)
	}
	return key.In(list...)
}

func (it Key) Asc() Ordering {
	return Ordering{Key: it}
}

func (it Key) Desc() Ordering {
	return Ordering{Key: it, Desc: true}
}
