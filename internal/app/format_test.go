package app

import (
	"testing"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/tray"
)

func TestFormatResults(t *testing.T) {
	tests := []struct {
		name    string
		results []tray.Result
		want    string
	}{
		{"empty", nil, "no dice"},
		{"single", []tray.Result{{Type: dice.D20, Value: 17}}, "d20 17 = 17"},
		{"pair", []tray.Result{{Type: dice.D6, Value: 3}, {Type: dice.D6, Value: 5}}, "d6 3 + d6 5 = 8"},
		{"percentile zero", []tray.Result{{Type: dice.D10, Value: 0}, {Type: dice.D10, Value: 7}}, "d10 0 + d10 7 = 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResults(tt.results); got != tt.want {
				t.Errorf("FormatResults() = %q, want %q", got, tt.want)
			}
		})
	}
}
