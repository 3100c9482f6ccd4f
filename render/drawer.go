package render

import (
	"github.com/fogleman/gg"
)

// gappedRatio is the share of a box a gapped module covers.
const gappedRatio = 0.8

// matrix wraps the encoder's bitmap with bounds-checked lookups.
type matrix [][]bool

func (m matrix) dark(row, col int) bool {
	if row < 0 || row >= len(m) || col < 0 || col >= len(m[row]) {
		return false
	}
	return m[row][col]
}

// finderSize is the edge of a finder pattern in modules.
const finderSize = 7

// inFinder reports whether (row, col) lies in one of the three finder
// patterns of an n×n symbol.
func inFinder(row, col, n int) bool {
	top, left := row < finderSize, col < finderSize
	bottom, right := row >= n-finderSize, col >= n-finderSize
	return (top && left) || (top && right) || (bottom && left)
}

// drawModules adds one sub-path per dark module to dc's current path.
// Finder patterns are always square so scanners can locate the symbol.
// The caller fills the path.
func drawModules(dc *gg.Context, m matrix, style string, box, border int) {
	s := float64(box)
	off := float64(border * box)

	for row := range m {
		for col := range m[row] {
			if !m[row][col] {
				continue
			}
			x := off + float64(col)*s
			y := off + float64(row)*s

			if inFinder(row, col, len(m)) {
				dc.DrawRectangle(x, y, s, s)
				continue
			}

			switch style {
			case StyleCircle:
				dc.DrawCircle(x+s/2, y+s/2, s/2)
			case StyleGapped:
				inset := s * (1 - gappedRatio) / 2
				dc.DrawRectangle(x+inset, y+inset, s*gappedRatio, s*gappedRatio)
			case StyleRounded:
				up, down := m.dark(row-1, col), m.dark(row+1, col)
				left, right := m.dark(row, col-1), m.dark(row, col+1)
				roundedModule(dc, x, y, s,
					!up && !left, !up && !right, !down && !right, !down && !left)
			default:
				dc.DrawRectangle(x, y, s, s)
			}
		}
	}
}

// roundedModule traces a box of edge s at (x, y) whose flagged corners are
// rounded with radius s/2. Corners are given clockwise from top-left.
func roundedModule(dc *gg.Context, x, y, s float64, tl, tr, br, bl bool) {
	r := s / 2
	radius := func(round bool) float64 {
		if round {
			return r
		}
		return 0
	}
	rtl, rtr, rbr, rbl := radius(tl), radius(tr), radius(br), radius(bl)

	dc.NewSubPath()
	dc.MoveTo(x+rtl, y)
	dc.LineTo(x+s-rtr, y)
	if tr {
		dc.QuadraticTo(x+s, y, x+s, y+rtr)
	}
	dc.LineTo(x+s, y+s-rbr)
	if br {
		dc.QuadraticTo(x+s, y+s, x+s-rbr, y+s)
	}
	dc.LineTo(x+rbl, y+s)
	if bl {
		dc.QuadraticTo(x, y+s, x, y+s-rbl)
	}
	dc.LineTo(x, y+rtl)
	if tl {
		dc.QuadraticTo(x, y, x+rtl, y)
	}
	dc.ClosePath()
}
