package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Preset is a named dice pool.
type Preset struct {
	Name string
	Dice []Type
}

// BuiltinPresets returns the presets shipped with the tray.
func BuiltinPresets() []Preset {
	return []Preset{
		{Name: "D&D Standard Set", Dice: []Type{D4, D6, D8, D10, D12, D20}},
		{Name: "D&D Attack", Dice: []Type{D20, D8}},
		{Name: "Yahtzee", Dice: []Type{D6, D6, D6, D6, D6}},
		{Name: "Monopoly", Dice: []Type{D6, D6}},
		{Name: "Risk Attacker", Dice: []Type{D6, D6, D6}},
		{Name: "Risk Defender", Dice: []Type{D6, D6}},
		{Name: "Catan", Dice: []Type{D6, D6}},
		{Name: "Single d20", Dice: []Type{D20}},
		{Name: "Percentile", Dice: []Type{D10, D10}},
	}
}

// ParsePool parses notation like "2d6+d20" or "d4, 3d8" into a flat list of types.
func ParsePool(s string) ([]Type, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPool)
	}

	var out []Type
	for _, f := range fields {
		f = strings.ToLower(f)
		i := strings.IndexByte(f, 'd')
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPool, f)
		}
		count := 1
		if i > 0 {
			n, err := strconv.Atoi(f[:i])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: bad count in %q", ErrInvalidPool, f)
			}
			count = n
		}
		t, err := Parse(f[i:])
		if err != nil {
			return nil, err
		}
		for j := 0; j < count; j++ {
			out = append(out, t)
		}
	}
	return out, nil
}

// DescribePool summarizes a pool in order of first appearance, e.g. "5d6" or "d20 + d8".
func DescribePool(pool []Type) string {
	counts := make(map[Type]int)
	var order []Type
	for _, t := range pool {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	parts := make([]string, 0, len(order))
	for _, t := range order {
		if n := counts[t]; n > 1 {
			parts = append(parts, fmt.Sprintf("%d%s", n, t))
		} else {
			parts = append(parts, t.String())
		}
	}
	return strings.Join(parts, " + ")
}
