package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

const (
	labelHeight   = 60
	labelTopGap   = 20
	labelFontSize = 24
)

// systemFonts are tried, in order, after the configured font path.
var systemFonts = []string{
	"/System/Library/Fonts/Helvetica.ttc",
	"/System/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	`C:\Windows\Fonts\arial.ttf`,
}

// addLabel appends a 60px white strip under img with text centred in it.
func addLabel(img image.Image, text string, fg color.Color, face font.Face) image.Image {
	b := img.Bounds()
	canvas := imaging.Paste(imaging.New(b.Dx(), b.Dy()+labelHeight, color.White), img, image.Pt(0, 0))

	dc := gg.NewContextForImage(canvas)
	dc.SetFontFace(face)
	dc.SetColor(fg)

	tw, _ := dc.MeasureString(text)
	x := math.Max(0, math.Floor((float64(b.Dx())-tw)/2))
	dc.DrawStringAnchored(text, x, float64(b.Dy()+labelTopGap), 0, 1)
	return dc.Image()
}

// loadFont returns the first usable font among path, the system fonts and
// the embedded Go Regular font, along with where it came from.
func loadFont(path string) (*sfnt.Font, string) {
	candidates := systemFonts
	if path != "" {
		candidates = append([]string{path}, systemFonts...)
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if f, err := parseFont(data); err == nil {
			return f, p
		}
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// goregular is compiled in; failing to parse it is a build problem.
		panic(fmt.Sprintf("render: embedded font: %v", err))
	}
	return f, "goregular"
}

// parseFont accepts a single font file or a collection, using its first font.
func parseFont(data []byte) (*sfnt.Font, error) {
	f, err := opentype.Parse(data)
	if err == nil {
		return f, nil
	}
	coll, cerr := opentype.ParseCollection(data)
	if cerr != nil {
		return nil, err
	}
	return coll.Font(0)
}

// newFace builds a label face. Faces are not safe for concurrent use, so
// each render gets its own.
func newFace(f *sfnt.Font) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
