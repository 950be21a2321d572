// Package store is a selector-based state container.
//
// A Store owns one immutable root value. Observers read projections of it
// through plain selector functions and are told about changes only when
// their projection changes identity. Writers locate their target with a
// path selector (see package path) and the store rebuilds just the maps,
// slices and structs along that path, sharing every other subtree with the
// previous root.
//
// Usage:
//
//	type State struct {
//	    Count int
//	    Todos []Todo
//	}
//
//	s := store.New(State{})
//
//	setCount := store.CreateSetter[int](s, func(b path.Builder) path.Builder {
//	    return b.Get("Count")
//	})
//
//	w := store.Watch(s, func(st State) int { return st.Count }, func(n int) {
//	    fmt.Println("count is now", n)
//	})
//	defer w.Stop()
//
//	setCount.Set(1)                                             // prints once
//	setCount.Update(func(n int, _ State) int { return n + 1 }) // prints once
//
//	s.Batch(func() {
//	    setCount.Set(10)
//	    setCount.Set(11)
//	}) // prints once, with 11
//
// Writes that would have to pass through a missing or scalar value are
// dropped: the root is left as it was and a warning is logged. A Store is
// not safe for concurrent use; the roots it hands out never change and may
// be shared freely.
package store
