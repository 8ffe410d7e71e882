package main

import "testing"

func TestAverager_SimpleMean(t *testing.T) {
	a := NewAverager()
	for _, v := range []uint32{500, 500, 500} {
		a.Submit(v)
	}
	if got := a.Average(); got != 500 {
		t.Fatalf("Average() = %d, want 500", got)
	}
}

func TestAverager_EmptyIsZero(t *testing.T) {
	a := NewAverager()
	if got := a.Average(); got != 0 {
		t.Fatalf("Average() on empty averager = %d, want 0", got)
	}
}

func TestAverager_EvictsOldestOnOverflow(t *testing.T) {
	a := NewAverager()
	for i := uint32(1); i <= avgCapacity; i++ {
		a.Submit(i * 100) // 100, 200, ..., 1000
	}
	want := uint32(550) // mean of 100..1000
	if got := a.Average(); got != want {
		t.Fatalf("Average() after filling = %d, want %d", got, want)
	}

	// The 11th submit must evict the first (100), not double-count it.
	a.Submit(1100)
	want = uint32(0)
	for _, v := range []uint32{200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100} {
		want += v
	}
	want /= avgCapacity
	if got := a.Average(); got != want {
		t.Fatalf("Average() after eviction = %d, want %d", got, want)
	}
}

func TestAverager_ResetClearsState(t *testing.T) {
	a := NewAverager()
	a.Submit(1000)
	a.Reset()
	if got := a.Average(); got != 0 {
		t.Fatalf("Average() after Reset() = %d, want 0", got)
	}
}
