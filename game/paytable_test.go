package game

import "testing"

func TestPayoutMultiplier(t *testing.T) {
	want := []float64{18, 9, 6, 4.5, 3, 2, 1, 2, 3, 4.5, 6, 9, 18}

	for bin, m := range want {
		if got := PayoutMultiplier(bin); got != m {
			t.Errorf("bin %d: want %v, got %v", bin, m, got)
		}
		if mirror := PayoutMultiplier(Rows - bin); mirror != m {
			t.Errorf("bin %d: table is not symmetric", bin)
		}
	}

	for _, bin := range []int{-1, 13, 99} {
		if got := PayoutMultiplier(bin); got != 0 {
			t.Errorf("bin %d: expected 0 outside the table, got %v", bin, got)
		}
	}
}
