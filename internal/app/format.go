package app

import (
	"fmt"
	"strings"

	"github.com/Faultbox/dicetray/internal/tray"
)

// FormatResults renders settled values like "d6 3 + d6 5 = 8".
func FormatResults(results []tray.Result) string {
	if len(results) == 0 {
		return "no dice"
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("%v %d", r.Type, r.Value)
	}
	return fmt.Sprintf("%s = %d", strings.Join(parts, " + "), tray.Total(results))
}
