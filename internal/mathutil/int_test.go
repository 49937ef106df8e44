package mathutil

import "testing"

func TestIntHelpers(t *testing.T) {
	if IntMin(3, -2) != -2 || IntMax(3, -2) != 3 {
		t.Error("IntMin/IntMax returned the wrong operand")
	}
	if IntAbs(-7) != 7 || IntAbs(7) != 7 {
		t.Error("IntAbs failed")
	}
	if IntSign(-9) != -1 || IntSign(0) != 0 || IntSign(4) != 1 {
		t.Error("IntSign failed")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct{ x, lo, hi, want int }{
		{-5, 0, 10, 0},
		{5, 0, 10, 5},
		{15, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := ClampInt(tt.x, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tt.x, tt.lo, tt.hi, got, tt.want)
		}
	}
}
