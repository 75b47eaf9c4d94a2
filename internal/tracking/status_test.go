package tracking

import "testing"

func sp(s string) *string { return &s }

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name       string
		ordered    *string
		received   *string
		incomplete *string
		want       Status
	}{
		{"all nil", nil, nil, nil, StatusNotOrdered},
		{"ordered only", sp("2026-08-01 09:00:00"), nil, nil, StatusOrdered},
		{"received complete", sp("2026-08-01 09:00:00"), sp("2026-08-05 14:00:00"), nil, StatusReceivedComplete},
		{"received incomplete", sp("2026-08-01 09:00:00"), nil, sp("2026-08-05 14:00:00"), StatusReceivedIncomplete},
		{"incomplete wins over complete", sp("2026-08-01 09:00:00"), sp("2026-08-05 14:00:00"), sp("2026-08-06 10:00:00"), StatusReceivedIncomplete},
		{"complete wins over ordered", nil, sp("2026-08-05 14:00:00"), nil, StatusReceivedComplete},
		{"incomplete without ordered", nil, nil, sp("2026-08-05 14:00:00"), StatusReceivedIncomplete},
		{"empty string counts as unset", sp(""), sp(""), sp(""), StatusNotOrdered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.ordered, tt.received, tt.incomplete)
			if got != tt.want {
				t.Errorf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "Doors", "DOORS", "drawers", "doors "} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true, want false", c)
		}
	}
}

func TestAllowsPONumber(t *testing.T) {
	tests := map[string]bool{
		"doors":       false,
		"glass":       false,
		"handles":     true,
		"accessories": true,
	}
	for c, want := range tests {
		if got := AllowsPONumber(c); got != want {
			t.Errorf("AllowsPONumber(%q) = %v, want %v", c, got, want)
		}
	}
}
