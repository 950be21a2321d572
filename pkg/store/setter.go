package store

import (
	"fmt"
	"reflect"

	ferrors "github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/pkg/path"
)

// Setter writes one location of a store's state. Create one with
// CreateSetter; the path is resolved once, at creation.
type Setter[T, S any] struct {
	store *Store[T]
	path  path.Path
}

// CreateSetter resolves sel to a path and returns a setter bound to it. sel
// must be path-shaped: an unconditional chain of Get and At calls.
//
// Missing map keys are created on write. A slice index equal to the length
// appends; an index past it leaves no gap to fill, so the write is dropped
// as an unreachable path (F001).
//
//	setName := store.CreateSetter[string](s, func(b path.Builder) path.Builder {
//	    return b.Get("users").At(0).Get("name")
//	})
func CreateSetter[S, T any](s *Store[T], sel path.Selector) *Setter[T, S] {
	return &Setter[T, S]{store: s, path: path.Infer(sel)}
}

// CreateSetterPath is CreateSetter for an already resolved path, such as one
// returned by path.Parse.
func CreateSetterPath[S, T any](s *Store[T], p path.Path) *Setter[T, S] {
	return &Setter[T, S]{store: s, path: p.Clone()}
}

// Path returns the path the setter writes to.
func (w *Setter[T, S]) Path() path.Path {
	return w.path.Clone()
}

// Set replaces the selected value with v. Setting a value identical to the
// current one (see Same) changes nothing and notifies no one.
func (w *Setter[T, S]) Set(v S) {
	w.store.write(w.path, reflect.ValueOf(&v).Elem())
}

// Update replaces the selected value with fn(current, root). current is the
// zero S when the path does not exist yet. If the value at the path is not
// an S the write is dropped with a diagnostic.
func (w *Setter[T, S]) Update(fn func(current S, root T) S) {
	root := w.store.root

	var cur S
	if v, ok := path.Walk(reflect.ValueOf(&root).Elem(), w.path); ok {
		if v = unwrapInterface(v); v.IsValid() {
			dst := reflect.ValueOf(&cur).Elem()
			if !v.Type().AssignableTo(dst.Type()) {
				err := ferrors.New(ferrors.CodeTypeMismatch).
					WithPath(w.path.String()).
					Wrap(fmt.Errorf("current value is %s, updater expects %s", v.Type(), dst.Type()))
				w.store.diagnose(w.path, err)
				w.store.observer.OnWrite(w.store.name, w.path, WriteTypeMismatch)
				return
			}
			dst.Set(v)
		}
	}

	next := fn(cur, root)
	w.store.write(w.path, reflect.ValueOf(&next).Elem())
}
