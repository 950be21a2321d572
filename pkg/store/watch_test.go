package store

import "testing"

func TestWatchReadsCurrentValue(t *testing.T) {
	s := New(sampleState())
	w := Watch(s, func(st mapState) any {
		return st["a"].(mapState)["a1"].(mapState)["a11"]
	}, nil)
	defer w.Stop()

	if w.Value() != 5 {
		t.Errorf("expected 5, got %v", w.Value())
	}
}

func TestWatchUpdatesOnRelevantChange(t *testing.T) {
	s := New(sampleState())

	var seen []any
	w := Watch(s, func(st mapState) any {
		return st["a"].(mapState)["a1"].(mapState)["a11"]
	}, func(v any) { seen = append(seen, v) })
	defer w.Stop()

	CreateSetter[int](s, sel("$.a.a1.a11")).Set(4)

	if w.Value() != 4 {
		t.Errorf("expected 4, got %v", w.Value())
	}
	if w.Changes() != 1 || len(seen) != 1 || seen[0] != 4 {
		t.Errorf("expected one change to 4, got changes=%d seen=%v", w.Changes(), seen)
	}
}

func TestWatchIgnoresUnrelatedChange(t *testing.T) {
	s := New(sampleState())
	w := Watch(s, func(st mapState) any {
		return st["a"].(mapState)["a1"].(mapState)["a11"]
	}, nil)
	defer w.Stop()

	CreateSetter[[]any](s, sel("$.a.b1")).Set([]any{"two"})

	if w.Changes() != 0 {
		t.Errorf("expected no change, got %d", w.Changes())
	}
}

func TestWatchIgnoresSameValue(t *testing.T) {
	s := New(sampleState())
	w := Watch(s, func(st mapState) any {
		return st["a"].(mapState)["a1"].(mapState)["a11"]
	}, nil)
	defer w.Stop()

	CreateSetter[int](s, sel("$.a.a1.a11")).Set(5)

	if w.Changes() != 0 {
		t.Errorf("expected no change, got %d", w.Changes())
	}
}

func TestWatchSeesChildChanges(t *testing.T) {
	s := New(sampleState())
	w := Watch(s, func(st mapState) any { return st["a"].(mapState)["b1"] }, nil)
	defer w.Stop()

	CreateSetter[string](s, sel("$.a.b1[0]")).Set("hello")

	if w.Changes() != 1 {
		t.Fatalf("expected 1 change, got %d", w.Changes())
	}
	if got := w.Value().([]any)[0]; got != "hello" {
		t.Errorf("expected hello, got %v", got)
	}
}

func TestWatchersOnDisjointPathsAreIndependent(t *testing.T) {
	s := New(mapState{
		"left":  mapState{"n": 0},
		"right": mapState{"n": 0},
	})
	left := Watch(s, func(st mapState) any { return st["left"] }, nil)
	right := Watch(s, func(st mapState) any { return st["right"] }, nil)
	root := Watch(s, func(st mapState) mapState { return st }, nil)
	defer left.Stop()
	defer right.Stop()
	defer root.Stop()

	CreateSetter[int](s, sel("left.n")).Set(1)

	if left.Changes() != 1 {
		t.Errorf("left: expected 1 change, got %d", left.Changes())
	}
	if right.Changes() != 0 {
		t.Errorf("right: expected 0 changes, got %d", right.Changes())
	}
	if root.Changes() != 1 {
		t.Errorf("root: expected ancestor watcher to change, got %d", root.Changes())
	}
}

func TestWatchStop(t *testing.T) {
	s := New(mapState{"n": 0})
	w := Watch(s, func(st mapState) any { return st["n"] }, nil)
	w.Stop()
	w.Stop()

	CreateSetter[int](s, sel("n")).Set(1)

	if w.Changes() != 0 || w.Value() != 0 {
		t.Errorf("expected a stopped watcher to keep its value, got %v after %d changes", w.Value(), w.Changes())
	}
	if s.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", s.SubscriberCount())
	}
}

func TestSelect(t *testing.T) {
	s := New(mapState{"count": 3})
	got := Select(s, func(st mapState) int { return st["count"].(int) * 2 })
	if got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
}
