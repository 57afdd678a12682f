package omtsf

import "reflect"

// isNilPtr reports whether v wraps a nil pointer. Used by the hand-written
// node/edge JSON marshalers to skip absent optional fields, whatever their
// concrete pointer type.
func isNilPtr(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
