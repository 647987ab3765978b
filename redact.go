package throttlequeue

import (
	"reflect"
	"strings"
)

// secretField is dropped from logged task arguments so credentials passed
// alongside a request never reach the log sink.
const secretField = "token"

// redactArgs returns a copy of args safe for logging: any string-keyed map
// entry or exported struct field named "token" (case-insensitive) is
// stripped, recursively. The caller's values are never mutated; redaction
// works on a copy built for the log call only.
func redactArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = redactValue(reflect.ValueOf(a))
	}
	return out
}

func redactValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return redactValue(v.Elem())

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			if strings.EqualFold(key, secretField) {
				continue
			}
			out[key] = redactValue(iter.Value())
		}
		return out

	case reflect.Struct:
		// Opaque structs with no exported fields (time.Time, etc.) pass
		// through unchanged; anything else is rebuilt field by field so a
		// token nested any number of levels down is still dropped.
		t := v.Type()
		if !hasExportedField(t) {
			return v.Interface()
		}
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || strings.EqualFold(f.Name, secretField) {
				continue
			}
			out[f.Name] = redactValue(v.Field(i))
		}
		return out

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = redactValue(v.Index(i))
		}
		return out

	default:
		return v.Interface()
	}
}

func hasExportedField(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}
