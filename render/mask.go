package render

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// colourMask returns the fill pattern for dark modules on a canvas of
// width w (canvases are square).
func colourMask(p plan, w int) gg.Pattern {
	switch p.gradient {
	case GradientLinear:
		return squareGradient{center: p.fg, edge: p.edge, width: float64(w)}
	case GradientRadial:
		c := float64(w) / 2
		g := gg.NewRadialGradient(c, c, 0, c, c, math.Sqrt2*c)
		g.AddColorStop(0, p.fg)
		g.AddColorStop(1, p.edge)
		return g
	default:
		return gg.NewSolidPattern(p.fg)
	}
}

// squareGradient blends from center to edge by Chebyshev distance from the
// canvas centre, so rings of equal colour are squares.
type squareGradient struct {
	center, edge color.RGBA
	width        float64
}

func (g squareGradient) ColorAt(x, y int) color.Color {
	dx := math.Abs(0.5 - float64(x)/g.width)
	dy := math.Abs(0.5 - float64(y)/g.width)
	t := math.Min(math.Max(dx, dy)*2, 1)
	return lerp(g.center, g.edge, t)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
