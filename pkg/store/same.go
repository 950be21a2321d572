package store

import "reflect"

// Same reports whether a and b are the same value by identity.
//
// Maps, pointers and channels are the same when they point at the same
// thing; slices when they share a data pointer and length. All empty non-nil
// slices of one type are Same, since they share the runtime's zero-size base
// pointer; a nil slice is not Same as an empty one. Funcs are only the same
// when both are nil. Scalars compare with ==, and structs and
// arrays compare member by member with these rules, so a struct holding the
// same slice and the same map as another is the same. Nothing is
// dereferenced or walked beyond that.
func Same(a, b any) bool {
	return sameValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func sameValue(a, b reflect.Value) bool {
	a, b = unwrapInterface(a), unwrapInterface(b)
	if !a.IsValid() || !b.IsValid() {
		return !a.IsValid() && !b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a.UnsafePointer() == b.UnsafePointer()
	case reflect.Slice:
		return a.Len() == b.Len() && a.UnsafePointer() == b.UnsafePointer()
	case reflect.Func:
		return a.IsNil() && b.IsNil()
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	default:
		return a.Equal(b)
	}
}

// unwrapInterface returns the dynamic value held by an interface value, or
// the zero Value for a nil interface.
func unwrapInterface(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
