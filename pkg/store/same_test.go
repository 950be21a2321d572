package store

import "testing"

func TestSame(t *testing.T) {
	m := map[string]any{"a": 1}
	sl := []int{1, 2, 3}
	p := &struct{ X int }{1}
	ch := make(chan int)
	var nilMap map[string]any
	var nilSlice []int

	type pair struct {
		M map[string]any
		N int
	}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"equal ints", 5, 5, true},
		{"different ints", 5, 4, false},
		{"int and int64", 5, int64(5), false},
		{"equal strings", "x", "x", true},
		{"same map", m, m, true},
		{"equal but distinct maps", m, map[string]any{"a": 1}, false},
		{"same slice", sl, sl, true},
		{"resliced", sl, sl[:2], false},
		{"copied slice", sl, append([]int(nil), sl...), false},
		{"nil slices", nilSlice, []int(nil), true},
		{"empty slices", make([]int, 0), make([]int, 0), true},
		{"nil and empty slice", nilSlice, []int{}, false},
		{"nil maps", nilMap, map[string]any(nil), true},
		{"same pointer", p, p, true},
		{"distinct pointers", p, &struct{ X int }{1}, false},
		{"same chan", ch, ch, true},
		{"funcs", func() {}, func() {}, false},
		{"structs sharing members", pair{m, 1}, pair{m, 1}, true},
		{"structs with distinct maps", pair{m, 1}, pair{map[string]any{"a": 1}, 1}, false},
		{"arrays", [2]any{m, 1}, [2]any{m, 1}, true},
		{"arrays differ", [2]int{1, 2}, [2]int{1, 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.want {
				t.Errorf("Same(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameNilFuncs(t *testing.T) {
	var f, g func()
	if !Same(f, g) {
		t.Error("expected two nil funcs of one type to be the same")
	}
}
