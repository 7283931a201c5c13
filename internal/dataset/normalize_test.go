package dataset

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pérdida [m3/d]", "perdida [m3/d]"},
		{"  POZO  ", "pozo"},
		{"Plan   [Si/No]", "plan [si/no]"},
		{"Batería", "bateria"},
		{"OBSERVACIONES", "observaciones"},
		{"Acción", "accion"},
		{"", ""},
		{"Z  Inyector", "z inyector"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
