package sqldb

import (
	"reflect"
	"sort"
	"time"
)

type deleteMarker struct{}

// Delete marks a field for explicit removal. It is the only way to write a
// NULL through Fields; a plain nil means "not provided" and is stripped.
var Delete = deleteMarker{}

// Fields is a column/value payload for inserts and partial updates.
type Fields map[string]any

// Compact drops every semantically absent value: untyped nil and nil
// pointers. Zero values such as 0, "" and false are kept.
func (f Fields) Compact() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if isAbsent(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// columns returns the payload's column names in a stable order together with
// their driver arguments. Instants are stored as epoch milliseconds.
func (f Fields) columns() ([]string, []any) {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)

	args := make([]any, len(names))
	for i, name := range names {
		switch v := f[name].(type) {
		case deleteMarker:
			args[i] = nil
		case time.Time:
			args[i] = FormatTimeForDB(v)
		case *time.Time:
			args[i] = FormatTimePtrForDB(v)
		default:
			args[i] = v
		}
	}
	return names, args
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
