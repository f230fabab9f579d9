package render

import "github.com/gdamore/tcell/v2"

// RGB is a 24-bit color blended in float space and converted to tcell on draw
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack = RGB{0, 0, 0}

	// Fitness gradient endpoints, cold (far from optimum) to hot
	RGBCold = RGB{40, 80, 200}
	RGBHot  = RGB{255, 220, 60}

	RGBPredatorHunt = RGB{255, 60, 60}
	RGBPredatorHold = RGB{255, 140, 0}
	RGBOptimum      = RGB{0, 255, 120}
	RGBBest         = RGB{255, 255, 255}
	RGBHUD          = RGB{180, 180, 180}
	RGBHUDBack      = RGB{20, 20, 40}
	RGBPaused       = RGB{255, 80, 200}
)

// clamp converts float to uint8 efficiently
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// Lerp linearly interpolates between two colors
// t=0 returns a, t=1 returns b, t is clamped to [0,1]
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGB{
		R: clamp(float64(a.R) + (float64(b.R)-float64(a.R))*t + 0.5),
		G: clamp(float64(a.G) + (float64(b.G)-float64(a.G))*t + 0.5),
		B: clamp(float64(a.B) + (float64(b.B)-float64(a.B))*t + 0.5),
	}
}

// Scale multiplies all channels by factor (0.0-1.0)
func Scale(c RGB, factor float64) RGB {
	return RGB{
		R: clamp(float64(c.R)*factor + 0.5),
		G: clamp(float64(c.G)*factor + 0.5),
		B: clamp(float64(c.B)*factor + 0.5),
	}
}

func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// FitnessColor maps fitness onto the cold-hot gradient
// Fitness 1 is the optimum; anything at or below floor renders fully cold
func FitnessColor(fitness, floor float64) RGB {
	if floor >= 1 {
		return RGBHot
	}
	return Lerp(RGBCold, RGBHot, (fitness-floor)/(1-floor))
}
