package entropy

import "testing"

func TestSeededSourcesAgree(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d diverged between identically seeded sources", i)
		}
	}
}

func TestChanceBounds(t *testing.T) {
	s := NewSeeded(1)
	for i := 0; i < 100; i++ {
		if s.Chance(0) {
			t.Fatalf("Chance(0) returned true")
		}
		if !s.Chance(1) {
			t.Fatalf("Chance(1) returned false")
		}
		if s.Chance(-0.5) {
			t.Fatalf("Chance(-0.5) returned true")
		}
		if !s.Chance(1.5) {
			t.Fatalf("Chance(1.5) returned false")
		}
	}
}

func TestChanceApproximatesProbability(t *testing.T) {
	s := NewSeeded(7)
	const trials = 50000
	hits := 0
	for i := 0; i < trials; i++ {
		if s.Chance(0.3) {
			hits++
		}
	}
	rate := float64(hits) / trials
	if rate < 0.28 || rate > 0.32 {
		t.Errorf("Chance(0.3) rate = %v over %d trials", rate, trials)
	}
}

func TestRangeStaysInBounds(t *testing.T) {
	s := NewSeeded(3)
	for i := 0; i < 1000; i++ {
		v := s.Range(2.5, 7.5)
		if v < 2.5 || v >= 7.5 {
			t.Fatalf("Range(2.5, 7.5) = %v", v)
		}
	}
	if got := s.Range(5, 5); got != 5 {
		t.Errorf("degenerate range = %v, want the lower bound", got)
	}
	if got := s.Range(5, 3); got != 5 {
		t.Errorf("inverted range = %v, want the lower bound", got)
	}
}

func TestShuffleIsSeedStable(t *testing.T) {
	shuffle := func(seed int64) []int {
		s := NewSeeded(seed)
		v := []int{0, 1, 2, 3, 4, 5, 6, 7}
		s.Shuffle(len(v), func(i, j int) { v[i], v[j] = v[j], v[i] })
		return v
	}
	a, b := shuffle(9), shuffle(9)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle diverged at index %d: %v vs %v", i, a, b)
		}
	}
}
