package path

import (
	"reflect"
	"strings"
)

// Lookup returns the value at p inside root. The boolean is false when any
// segment is missing or lands on a value that cannot be navigated.
//
// Maps keyed by strings or integers, slices, arrays, structs (exported
// fields, by Go name or json tag), pointers and interfaces are navigable.
func Lookup(root any, p Path) (any, bool) {
	v, ok := Walk(reflect.ValueOf(root), p)
	if !ok || !v.IsValid() {
		return nil, false
	}
	if !v.CanInterface() {
		return nil, false
	}
	return v.Interface(), true
}

// Walk is Lookup over reflect values.
func Walk(v reflect.Value, p Path) (reflect.Value, bool) {
	for _, k := range p {
		next, ok := Child(v, k)
		if !ok {
			return reflect.Value{}, false
		}
		v = next
	}
	return v, v.IsValid()
}

// Child returns the element of container v addressed by k. Pointers and
// interfaces are dereferenced first; nil ones have no children.
func Child(v reflect.Value, k Key) (reflect.Value, bool) {
	v = Indirect(v)
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		mk, ok := MapKey(v.Type().Key(), k)
		if !ok {
			return reflect.Value{}, false
		}
		child := v.MapIndex(mk)
		return child, child.IsValid()

	case reflect.Slice, reflect.Array:
		if !k.IsIndex() || k.Index() >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(k.Index()), true

	case reflect.Struct:
		if k.IsIndex() {
			return reflect.Value{}, false
		}
		i, ok := FieldIndex(v.Type(), k.Name())
		if !ok {
			return reflect.Value{}, false
		}
		return v.Field(i), true
	}
	return reflect.Value{}, false
}

// Indirect strips interfaces and pointers from v. It returns the zero Value
// if it meets a nil along the way.
func Indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// IsContainer reports whether v, after Indirect, can hold children.
func IsContainer(v reflect.Value) bool {
	v = Indirect(v)
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}

// MapKey converts k to a key of map key type t. String-kinded maps accept
// both forms (an index becomes its decimal name); integer-kinded maps accept
// index keys only.
func MapKey(t reflect.Type, k Key) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(k.Name()).Convert(t), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !k.IsIndex() {
			return reflect.Value{}, false
		}
		iv := reflect.ValueOf(k.Index())
		if !iv.CanConvert(t) {
			return reflect.Value{}, false
		}
		return iv.Convert(t), true
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return reflect.Value{}, false
		}
		var key any = k.Name()
		if k.IsIndex() {
			key = k.Index()
		}
		return reflect.ValueOf(&key).Elem(), true
	}
	return reflect.Value{}, false
}

// FieldIndex resolves name to a direct exported field of struct type t. The
// Go field name wins over a json tag of the same spelling. Promoted fields
// of embedded structs are not reachable.
func FieldIndex(t reflect.Type, name string) (int, bool) {
	if f, ok := t.FieldByName(name); ok && len(f.Index) == 1 && f.IsExported() {
		return f.Index[0], true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag != "" && tag != "-" && tag == name {
			return i, true
		}
	}
	return 0, false
}
