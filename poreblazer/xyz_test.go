package poreblazer

import "testing"

func TestParseXYZ(t *testing.T) {
	rows, err := ParseXYZ(sampleXYZRaw)
	if err != nil {
		t.Fatalf("ParseXYZ() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	want := XYZRow{Particle: "He", X: 1.25, Y: 0, Z: 0}
	if rows[1] != want {
		t.Errorf("rows[1] = %+v, want %+v", rows[1], want)
	}
}

func TestParseXYZMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"count only", "3\n"},
		{"count mismatch", "2\ncomment\nHe 0 0 0\n"},
		{"count too low", "1\ncomment\nHe 0 0 0\nHe 1 0 0\n"},
		{"bad count", "three\ncomment\n"},
		{"negative count", "-1\ncomment\n"},
		{"three columns", "1\ncomment\nHe 0 0\n"},
		{"five columns", "1\ncomment\nHe 0 0 0 0\n"},
		{"bad coordinate", "1\ncomment\nHe 0 0 z\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseXYZ(tt.text); err == nil {
				t.Error("ParseXYZ() succeeded on malformed input")
			}
		})
	}
}

func TestParseXYZEmptyCloud(t *testing.T) {
	rows, err := ParseXYZ("0\nempty cloud\n")
	if err != nil {
		t.Fatalf("ParseXYZ() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}
