package core

import "testing"

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		fields []Field
		want   string
	}{
		{"bare", "", nil, "[INFO] page started"},
		{"prefix", "[pizzeria]", nil, "[pizzeria] [INFO] page started"},
		{"fields", "", []Field{F("movers", 24), F("workers", 1)}, "[INFO] page started {movers: 24, workers: 1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLine(tt.prefix, "INFO", "page started", tt.fields); got != tt.want {
				t.Errorf("formatLine = %q, want %q", got, tt.want)
			}
		})
	}
}
