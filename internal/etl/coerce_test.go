package etl

import "testing"

func TestCoerceMoney(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"empty cell", "", 0.0},
		{"whitespace only", "   ", 0.0},
		{"dash placeholder", "-", 0.0},
		{"padded dash", " - ", 0.0},
		{"plain number", "1500", 1500.0},
		{"decimal", "12.75", 12.75},
		{"thousands separators", "1,234.50", 1234.5},
		{"millions", "12,345,678.90", 12345678.9},
		{"negative", "-2,500.00", -2500.0},
		{"unparseable text", "abc", 0.0},
		{"mixed garbage", "12abc", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceMoney(tt.raw); got != tt.want {
				t.Errorf("CoerceMoney(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
