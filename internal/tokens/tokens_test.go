package tokens

import (
	"strings"
	"testing"
)

func TestEstimateEmpty(t *testing.T) {
	if got := Estimate(""); got != 0 {
		t.Errorf("expected 0 for empty text, got %d", got)
	}
}

func TestEstimateMonotonic(t *testing.T) {
	prev := 0
	for n := 1; n <= 200; n++ {
		got := Estimate(strings.Repeat("a", n))
		if got < prev {
			t.Fatalf("estimate decreased at length %d: %d < %d", n, got, prev)
		}
		prev = got
	}
}

func TestEstimateFormula(t *testing.T) {
	cases := []struct {
		len  int
		want int
	}{
		{1, 1},
		{3, 1},
		{4, 2},
		{8, 3},
		{100, 26},
	}
	for _, c := range cases {
		if got := Estimate(strings.Repeat("x", c.len)); got != c.want {
			t.Errorf("len %d: expected %d, got %d", c.len, c.want, got)
		}
	}
}

func TestMaxCharsInverse(t *testing.T) {
	// Any text truncated to MaxChars(b) must estimate <= b.
	for _, budget := range []int{0, 1, 2, 10, 100, 3000} {
		chars := MaxChars(budget)
		if est := Estimate(strings.Repeat("q", chars)); est > budget {
			t.Errorf("budget %d: %d chars estimates %d tokens", budget, chars, est)
		}
		// One more char must not be provably safe: check tightness loosely.
		if budget > 1 {
			if est := Estimate(strings.Repeat("q", chars+4)); est <= budget {
				t.Errorf("budget %d: MaxChars too conservative by a full token", budget)
			}
		}
	}
}
