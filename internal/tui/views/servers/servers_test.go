package servers

import (
	"strings"
	"testing"
)

func TestSelection(t *testing.T) {
	tests := []struct {
		name  string
		start int
		rows  int
		move  func(*Model, int)
		want  int
	}{
		{name: "next", start: 0, rows: 3, move: (*Model).Next, want: 1},
		{name: "next wraps", start: 2, rows: 3, move: (*Model).Next, want: 0},
		{name: "prev wraps", start: 0, rows: 3, move: (*Model).Prev, want: 2},
		{name: "next on empty", start: 0, rows: 0, move: (*Model).Next, want: 0},
		{name: "clamp shrinks", start: 5, rows: 2, move: (*Model).Clamp, want: 1},
		{name: "clamp empty", start: 5, rows: 0, move: (*Model).Clamp, want: 0},
		{name: "clamp keeps", start: 1, rows: 4, move: (*Model).Clamp, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{Selected: tt.start}
			tt.move(&m, tt.rows)
			if m.Selected != tt.want {
				t.Errorf("Selected = %d, want %d", m.Selected, tt.want)
			}
		})
	}
}

func TestViewEmpty(t *testing.T) {
	v := Model{}.View(nil)
	if !strings.Contains(v, "SERVERS") || !strings.Contains(v, "No sessions listed") {
		t.Errorf("View(nil) = %q", v)
	}
}
