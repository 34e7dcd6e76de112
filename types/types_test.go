package types

import "testing"

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{nil, ""},
		{[]string{"", ""}, ""},
		{[]string{"", "Gran", "Dialog"}, "Gran"},
		{[]string{"Shop", "Bench"}, "Shop"},
	}
	for _, tt := range tests {
		if got := FirstNonEmpty(tt.values...); got != tt.want {
			t.Errorf("FirstNonEmpty(%q) = %q, want %q", tt.values, got, tt.want)
		}
	}
}
