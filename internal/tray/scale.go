package tray

// ScaleFor returns the render and collision scale for a tray holding n dice.
// Fewer dice are drawn larger so a lone die reads well on screen.
func ScaleFor(n int) float64 {
	switch {
	case n <= 1:
		return 2
	case n == 2:
		return 1.5
	case n <= 6:
		return 1.4
	case n <= 10:
		return 1
	default:
		return 0.65
	}
}

// MassFor returns the body mass of a die drawn at scale s.
func MassFor(s float64) float64 { return s * s * s }
