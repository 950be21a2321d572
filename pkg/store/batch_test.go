package store

import (
	"context"
	"errors"
	"testing"
)

func TestBatchUpdatesStore(t *testing.T) {
	s := New(mapState{"count": 0})
	setCount := CreateSetter[int](s, sel("count"))
	w := Watch(s, func(st mapState) any { return st["count"] }, nil)
	defer w.Stop()

	s.Batch(func() {
		setCount.Set(5)
	})

	if w.Value() != 5 {
		t.Errorf("expected 5, got %v", w.Value())
	}
}

func TestBatchSingleNotification(t *testing.T) {
	s := New(mapState{"count": 0})
	setCount := CreateSetter[int](s, sel("count"))

	calls := 0
	var last mapState
	s.Subscribe(func(root mapState) {
		calls++
		last = root
	})

	s.Batch(func() {
		setCount.Set(5)
		setCount.Set(6)
		setCount.Set(7)
		setCount.Set(8)

		if calls != 0 {
			t.Errorf("expected no notification inside the batch, got %d", calls)
		}
		if s.Get()["count"] != 8 {
			t.Errorf("expected writes to be visible inside the batch, got %v", s.Get()["count"])
		}
	})

	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
	if last["count"] != 8 {
		t.Errorf("expected final count 8, got %v", last["count"])
	}
	if s.Batching() {
		t.Error("expected batching to be over")
	}
}

func TestBatchNoChange(t *testing.T) {
	s := New(mapState{"count": 0})
	setCount := CreateSetter[int](s, sel("count"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	s.Batch(func() {
		setCount.Set(0)
		setCount.Set(0)
	})

	if calls != 0 {
		t.Errorf("expected 0 notifications, got %d", calls)
	}
}

func TestBatchNested(t *testing.T) {
	s := New(mapState{"count": 0})
	setCount := CreateSetter[int](s, sel("count"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	s.Batch(func() {
		setCount.Set(1)
		s.Batch(func() {
			setCount.Set(2)
			s.Batch(func() {
				setCount.Set(3)
			})
		})
		if calls != 0 {
			t.Errorf("inner batches should not notify, got %d", calls)
		}
		if !s.Batching() {
			t.Error("expected the outer batch to still be open")
		}
	})

	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
	if s.Get()["count"] != 3 {
		t.Errorf("expected 3, got %v", s.Get()["count"])
	}
}

func TestBatchNestedNoChangeInOuter(t *testing.T) {
	s := New(mapState{"count": 0})
	setCount := CreateSetter[int](s, sel("count"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	s.Batch(func() {
		s.Batch(func() { setCount.Set(1) })
	})

	if calls != 1 {
		t.Errorf("expected a change in an inner batch to notify once at the end, got %d", calls)
	}
}

func TestBatchPanicClearsState(t *testing.T) {
	s := New(mapState{"count": 0})
	setCount := CreateSetter[int](s, sel("count"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected panic to propagate, got %v", r)
			}
		}()
		s.Batch(func() {
			setCount.Set(1)
			panic("boom")
		})
	}()

	if s.Batching() {
		t.Error("expected the batch to be closed after a panic")
	}
	if calls != 0 {
		t.Errorf("expected a failed batch not to notify, got %d", calls)
	}
	if s.Get()["count"] != 1 {
		t.Errorf("expected partial writes to be kept, got %v", s.Get()["count"])
	}

	setCount.Set(2)
	if calls != 1 {
		t.Errorf("expected later writes to notify normally, got %d", calls)
	}
}

func TestTxNotifiesOnce(t *testing.T) {
	s := New(mapState{"a": 0, "b": 0})
	setA := CreateSetter[int](s, sel("a"))
	setB := CreateSetter[int](s, sel("b"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	err := s.Tx(context.Background(), "both", func(ctx context.Context) error {
		if ctx == nil {
			t.Error("expected a context")
		}
		setA.Set(1)
		setB.Set(2)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
}

func TestTxErrorSkipsNotification(t *testing.T) {
	s := New(mapState{"a": 0})
	setA := CreateSetter[int](s, sel("a"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	errBoom := errors.New("boom")
	err := s.Tx(context.Background(), "fails", func(context.Context) error {
		setA.Set(1)
		return errBoom
	})

	if !errors.Is(err, errBoom) {
		t.Errorf("expected boom, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected 0 notifications, got %d", calls)
	}
	if s.Get()["a"] != 1 {
		t.Errorf("expected the write to be kept, got %v", s.Get()["a"])
	}
	if s.Batching() {
		t.Error("expected the transaction to be closed")
	}
}

func TestTxPanicClearsState(t *testing.T) {
	obs := &recordingObserver{}
	s := New(mapState{"a": 0}, WithObserver(obs))
	setA := CreateSetter[int](s, sel("a"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected panic to propagate, got %v", r)
			}
		}()
		_ = s.Tx(context.Background(), "panics", func(context.Context) error {
			setA.Set(1)
			panic("boom")
		})
	}()

	if s.Batching() {
		t.Error("expected the transaction to be closed after a panic")
	}
	if calls != 0 {
		t.Errorf("expected a panicking transaction not to notify, got %d", calls)
	}
	if s.Get()["a"] != 1 {
		t.Errorf("expected partial writes to be kept, got %v", s.Get()["a"])
	}
	if len(obs.batches) != 1 || obs.batches[0] {
		t.Errorf("expected one unchanged batch report, got %v", obs.batches)
	}

	setA.Set(2)
	if calls != 1 {
		t.Errorf("expected later writes to notify normally, got %d", calls)
	}
}

func TestTxInsideBatch(t *testing.T) {
	s := New(mapState{"a": 0})
	setA := CreateSetter[int](s, sel("a"))

	calls := 0
	s.Subscribe(func(mapState) { calls++ })

	s.Batch(func() {
		_ = s.Tx(context.Background(), "inner", func(context.Context) error {
			setA.Set(1)
			return nil
		})
		if calls != 0 {
			t.Errorf("a nested Tx should not notify, got %d", calls)
		}
	})

	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
}
