package store

import (
	"fmt"
	"reflect"

	ferrors "github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/pkg/path"
)

// assign computes the replacement for a slot of type t that currently holds
// cur (the zero Value when the slot does not exist yet) after writing leaf
// at full[depth:].
//
// It never mutates cur. When nothing changes it returns cur itself and
// false, so an identical leaf short-circuits every level above it.
func assign(cur reflect.Value, t reflect.Type, full path.Path, depth int, leaf reflect.Value) (reflect.Value, bool, error) {
	if depth == len(full) {
		next, err := fitLeaf(leaf, t)
		if err != nil {
			return cur, false, ferrors.New(ferrors.CodeTypeMismatch).
				WithPath(full.String()).
				Wrap(err)
		}
		old := cur
		if !old.IsValid() {
			old = reflect.Zero(t)
		}
		if sameValue(old, next) {
			return cur, false, nil
		}
		return next, true, nil
	}

	if !cur.IsValid() || !path.IsContainer(cur) {
		return cur, false, unreachable(full, depth, "value is missing, nil or not a container")
	}
	return rebuild(cur, full, depth, leaf)
}

// rebuild returns a shallow copy of container node with full[depth] replaced.
func rebuild(node reflect.Value, full path.Path, depth int, leaf reflect.Value) (reflect.Value, bool, error) {
	key := full[depth]

	switch node.Kind() {
	case reflect.Interface:
		if node.IsNil() {
			return node, false, unreachable(full, depth, "nil interface")
		}
		inner, changed, err := rebuild(node.Elem(), full, depth, leaf)
		if err != nil || !changed {
			return node, false, err
		}
		out := reflect.New(node.Type()).Elem()
		out.Set(inner)
		return out, true, nil

	case reflect.Pointer:
		if node.IsNil() {
			return node, false, unreachable(full, depth, "nil pointer")
		}
		inner, changed, err := rebuild(node.Elem(), full, depth, leaf)
		if err != nil || !changed {
			return node, false, err
		}
		out := reflect.New(node.Type().Elem())
		out.Elem().Set(inner)
		return out, true, nil

	case reflect.Map:
		mk, ok := path.MapKey(node.Type().Key(), key)
		if !ok {
			return node, false, unreachable(full, depth, fmt.Sprintf("key %q does not fit map key type %s", key.Name(), node.Type().Key()))
		}
		child, changed, err := assign(node.MapIndex(mk), node.Type().Elem(), full, depth+1, leaf)
		if err != nil || !changed {
			return node, false, err
		}
		out := reflect.MakeMapWithSize(node.Type(), node.Len()+1)
		iter := node.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		out.SetMapIndex(mk, child)
		return out, true, nil

	case reflect.Slice:
		if !key.IsIndex() {
			return node, false, unreachable(full, depth, fmt.Sprintf("name %q used on a slice", key.Name()))
		}
		i, n := key.Index(), node.Len()
		if i > n {
			return node, false, unreachable(full, depth, fmt.Sprintf("index %d beyond length %d", i, n))
		}
		var cur reflect.Value
		if i < n {
			cur = node.Index(i)
		}
		child, changed, err := assign(cur, node.Type().Elem(), full, depth+1, leaf)
		if err != nil || !changed {
			return node, false, err
		}
		size := n
		if i == n {
			size++
		}
		out := reflect.MakeSlice(node.Type(), size, size)
		reflect.Copy(out, node)
		out.Index(i).Set(child)
		return out, true, nil

	case reflect.Array:
		if !key.IsIndex() || key.Index() >= node.Len() {
			return node, false, unreachable(full, depth, fmt.Sprintf("key %s out of array bounds", key))
		}
		i := key.Index()
		child, changed, err := assign(node.Index(i), node.Type().Elem(), full, depth+1, leaf)
		if err != nil || !changed {
			return node, false, err
		}
		out := reflect.New(node.Type()).Elem()
		out.Set(node)
		out.Index(i).Set(child)
		return out, true, nil

	case reflect.Struct:
		if key.IsIndex() {
			return node, false, unreachable(full, depth, fmt.Sprintf("index %d used on a struct", key.Index()))
		}
		fi, ok := path.FieldIndex(node.Type(), key.Name())
		if !ok {
			return node, false, unreachable(full, depth, fmt.Sprintf("%s has no exported field %q", node.Type(), key.Name()))
		}
		child, changed, err := assign(node.Field(fi), node.Type().Field(fi).Type, full, depth+1, leaf)
		if err != nil || !changed {
			return node, false, err
		}
		out := reflect.New(node.Type()).Elem()
		out.Set(node)
		out.Field(fi).Set(child)
		return out, true, nil
	}

	return node, false, unreachable(full, depth, node.Kind().String()+" is not a container")
}

// fitLeaf converts leaf to a value of slot type t. Interfaces are unwrapped
// first; nil fits any nillable slot. No numeric conversions are made.
func fitLeaf(leaf reflect.Value, t reflect.Type) (reflect.Value, error) {
	leaf = unwrapInterface(leaf)
	if !leaf.IsValid() {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil does not fit %s", t)
	}
	if !leaf.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s does not fit %s", leaf.Type(), t)
	}
	if leaf.Type() == t {
		return leaf, nil
	}
	out := reflect.New(t).Elem()
	out.Set(leaf)
	return out, nil
}

func unreachable(full path.Path, depth int, reason string) error {
	return ferrors.New(ferrors.CodeUnreachablePath).
		WithPath(full.String()).
		WithSuggestion(fmt.Sprintf("make sure %s holds a map, slice, array or struct before writing below it", full[:depth].String())).
		Wrap(fmt.Errorf("at %s: %s", full[:depth].String(), reason))
}
