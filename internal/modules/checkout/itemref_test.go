package checkout

import "testing"

func TestParseItemRef(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantOK   bool
		wantKind ItemKind
		wantID   string
	}{
		{"record uuid", "5b67e549-5c01-418a-b1cb-9097e7932c2e", true, KindHistoricalRecord, "5b67e549-5c01-418a-b1cb-9097e7932c2e"},
		{"bond code", "BOND-001", true, KindBond, "BOND-001"},
		{"bond numeric code", "1868-CP-12", true, KindBond, "1868-CP-12"},
		{"whitespace trimmed", "  BOND-002  ", true, KindBond, "BOND-002"},
		{"empty", "", false, 0, ""},
		{"only spaces", "   ", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := ParseItemRef(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseItemRef(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ref.Kind != tt.wantKind {
				t.Errorf("ParseItemRef(%q) kind = %v, want %v", tt.raw, ref.Kind, tt.wantKind)
			}
			if ref.ID != tt.wantID {
				t.Errorf("ParseItemRef(%q) id = %q, want %q", tt.raw, ref.ID, tt.wantID)
			}
		})
	}
}

func TestFeeAllowed(t *testing.T) {
	record := ItemRef{Kind: KindHistoricalRecord, ID: "5b67e549-5c01-418a-b1cb-9097e7932c2e"}
	bond := ItemRef{Kind: KindBond, ID: "BOND-001"}

	tests := []struct {
		name string
		ref  ItemRef
		base float64
		fee  float64
		want bool
	}{
		{"record exact", record, 200, 200, true},
		{"record over", record, 200, 205, false},
		{"record under", record, 200, 199.99, false},
		{"bond base", bond, 100, 100, true},
		{"bond handling", bond, 100, 105, true},
		{"bond international", bond, 100, 120, true},
		{"bond handling and international", bond, 100, 125, true},
		{"bond arbitrary markup", bond, 100, 110, false},
		{"bond under", bond, 100, 95, false},
		{"float representation", bond, 99.99, 104.99, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := feeAllowed(tt.ref, tt.base, tt.fee); got != tt.want {
				t.Errorf("feeAllowed(%v, %v, %v) = %v, want %v", tt.ref, tt.base, tt.fee, got, tt.want)
			}
		})
	}
}
