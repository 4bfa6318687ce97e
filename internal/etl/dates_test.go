package etl

import (
	"testing"
	"time"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		path string
		want time.Time
		ok   bool
	}{
		{
			name: "date in file name",
			path: `2025/ENERO/PAGOS 03.01.2025.xlsx`,
			want: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "date only in folder name",
			path: `PAGOS/SEMANA 07.02.2025/resumen.xlsx`,
			want: time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "first match wins",
			path: `2024/01.03.2024/copia 05.03.2024.xlsx`,
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "no date",
			path: `PAGOS/plantilla.xlsx`,
			ok:   false,
		},
		{
			name: "invalid calendar date",
			path: `PAGOS 31.02.2025.xlsx`,
			ok:   false,
		},
		{
			name: "month out of range",
			path: `PAGOS 05.13.2025.xlsx`,
			ok:   false,
		},
		{
			name: "leap day",
			path: `PAGOS 29.02.2024.xlsx`,
			want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "leap day on non-leap year",
			path: `PAGOS 29.02.2025.xlsx`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.path)
			if ok != tt.ok {
				t.Fatalf("ExtractDate(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ExtractDate(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
