package system

import "testing"

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://alice:secret@db:5432/pillars", "postgres://alice:****@db:5432/pillars"},
		{"postgresql://alice@db/pillars", "postgresql://alice@db/pillars"},
		{"postgres://db/pillars", "postgres://db/pillars"},
		{"/tmp/pillars.db", "/tmp/pillars.db"},
	}
	for _, tt := range tests {
		if got := maskPassword(tt.in); got != tt.want {
			t.Errorf("maskPassword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
