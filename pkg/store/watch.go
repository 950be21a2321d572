package store

// Select returns sel applied to the current root.
func Select[T, S any](s *Store[T], sel func(T) S) S {
	return sel(s.root)
}

// Watcher caches one projection of a store and refreshes it when the
// projection changes identity.
type Watcher[S any] struct {
	value    S
	changes  int
	onChange func(S)
	stop     func()
}

// Watch subscribes to s and keeps sel(root) cached. After every
// notification the projection is recomputed; when it is not Same as the
// cached one the cache is replaced and onChange, if non-nil, is called.
// Changes elsewhere in the state leave the watcher untouched.
func Watch[T, S any](s *Store[T], sel func(T) S, onChange func(S)) *Watcher[S] {
	w := &Watcher[S]{
		value:    sel(s.root),
		onChange: onChange,
	}
	w.stop = s.Subscribe(func(root T) {
		next := sel(root)
		if Same(w.value, next) {
			return
		}
		w.value = next
		w.changes++
		if w.onChange != nil {
			w.onChange(next)
		}
	})
	return w
}

// Value returns the cached projection.
func (w *Watcher[S]) Value() S {
	return w.value
}

// Changes returns how many times the projection has changed.
func (w *Watcher[S]) Changes() int {
	return w.changes
}

// Stop unsubscribes the watcher. The cached value stays readable.
func (w *Watcher[S]) Stop() {
	w.stop()
}
