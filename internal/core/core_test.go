package core

import (
	"slices"
	"testing"
	"time"
)

func TestLayoutFor(t *testing.T) {
	cases := []struct {
		n    int
		want Size
	}{
		{0, Size{1, 1}},
		{1, Size{1, 1}},
		{10, Size{4, 3}},
		{100, Size{10, 10}},
		{10000, Size{100, 100}},
	}
	for _, tc := range cases {
		if got := LayoutFor(tc.n); got != tc.want {
			t.Fatalf("LayoutFor(%d) = %+v, want %+v", tc.n, got, tc.want)
		}
	}
}

func TestByteGridLoadPads(t *testing.T) {
	g := NewByteGrid(3, 2)
	g.Load([]uint8{1, 2, 3, 4}, 9)
	if !slices.Equal(g.Cells(), []uint8{1, 2, 3, 4, 9, 9}) {
		t.Fatalf("unexpected cells %v", g.Cells())
	}
	if g.Index(1, 1) != 4 {
		t.Fatalf("Index(1,1) = %d", g.Index(1, 1))
	}
	g.Clear()
	if !slices.Equal(g.Cells(), make([]uint8, 6)) {
		t.Fatal("Clear left values behind")
	}
}

func TestFixedStepDue(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }

	if got := fs.Due(5); got != 1 {
		t.Fatalf("first Due = %d, want 1 (primed accumulator)", got)
	}
	clock = clock.Add(250 * time.Millisecond)
	if got := fs.Due(5); got != 2 {
		t.Fatalf("Due after 250ms = %d, want 2", got)
	}
	clock = clock.Add(10 * time.Second)
	if got := fs.Due(5); got != 5 {
		t.Fatalf("Due after stall = %d, want cap 5", got)
	}
	clock = clock.Add(50 * time.Millisecond)
	if got := fs.Due(5); got != 0 {
		t.Fatalf("Due after reset = %d, want 0", got)
	}
}

func TestRegistry(t *testing.T) {
	Register("", func(map[string]string) (Sim, error) { return nil, nil })
	Register("nil-factory", nil)
	if _, ok := Sims()[""]; ok {
		t.Fatal("empty name registered")
	}
	if _, ok := Sims()["nil-factory"]; ok {
		t.Fatal("nil factory registered")
	}
	Register("zz-test", func(map[string]string) (Sim, error) { return nil, nil })
	defer delete(sims, "zz-test")
	names := Names()
	if !slices.IsSorted(names) || !slices.Contains(names, "zz-test") {
		t.Fatalf("Names = %v", names)
	}
}

func TestParameterLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "A", Params: []Parameter{{Key: "x", Value: "1"}}},
		{Name: "B", Params: []Parameter{{Key: "y", Value: "2"}}},
	}}
	if p, ok := snap.Lookup("y"); !ok || p.Value != "2" {
		t.Fatalf("Lookup(y) = %+v, %v", p, ok)
	}
	if _, ok := snap.Lookup("z"); ok {
		t.Fatal("Lookup(z) should miss")
	}
}
